package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column ("Montant" with value "-10,000").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a bank statement export. Column
// names are compared after case folding.
type Profile struct {
	Name       string
	DateCol    string
	LabelCol   string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.LabelCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// Profiles is tried in order during detection; more specific layouts first.
var Profiles = []Profile{
	{
		Name:       "compte",
		DateCol:    "Date opération",
		LabelCol:   "Libellé",
		AmountMode: amountSplit,
		DebitCol:   "Débit",
		CreditCol:  "Crédit",
	},
	{
		Name:       "valeur",
		DateCol:    "Date valeur",
		LabelCol:   "Opération",
		AmountMode: amountSplit,
		DebitCol:   "Débit",
		CreditCol:  "Crédit",
	},
	{
		Name:       "releve",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSingle,
		AmountCol:  "Montant",
	},
}

// dateLayouts are the day formats found in statement exports.
var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02", "02/01/06"}
