// Package importer turns uploaded bank files into deposits.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
)

// Format names a statement layout. FormatAuto tries every known layout.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatCompte Format = "compte"
	FormatValeur Format = "valeur"
	FormatReleve Format = "releve"
)

type Importer interface {
	Parse(r io.Reader) ([]deposit.CreateParams, error)
}
