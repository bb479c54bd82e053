// Package statement turns bank statement exports into bank deposits.
package statement

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

// DefaultKeywords pick out cash deposits among the credit lines.
var DefaultKeywords = []string{"versement", "vers.", "dépôt", "depot"}

type Importer struct {
	parser   *Parser
	keywords []string
}

// New returns an importer keeping credit lines whose label contains one of
// keywords. Without keywords every credit line is kept.
func New(parser *Parser, keywords ...string) *Importer {
	return &Importer{parser: parser, keywords: keywords}
}

func (i *Importer) Parse(r io.Reader) ([]deposit.CreateParams, error) {
	lines, err := i.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	var (
		params []deposit.CreateParams
		seen   = make(map[string]int)
	)

	for _, l := range lines {
		if !l.Amount.IsPositive() || !i.matches(l.Label) {
			continue
		}

		day, _ := datekey.Normalize(l.Date)

		// The reference identifies the line across overlapping exports;
		// identical lines of one statement are told apart by position.
		ref := fmt.Sprintf("stmt:%s:%s:%s", day, money.Format(l.Amount), textnorm.Fold(l.Label))
		seen[ref]++

		if n := seen[ref]; n > 1 {
			ref = fmt.Sprintf("%s#%d", ref, n)
		}

		params = append(params, deposit.CreateParams{
			Amount:    l.Amount,
			Date:      l.Date,
			Note:      l.Label,
			Reference: ref,
		})
	}

	return params, nil
}

func (i *Importer) matches(label string) bool {
	if len(i.keywords) == 0 {
		return true
	}

	for _, k := range i.keywords {
		if textnorm.Contains(label, k) {
			return true
		}
	}

	return false
}
