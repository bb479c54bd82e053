package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/recette/internal/importer/statement"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_Compte(t *testing.T) {
	csv := `Relevé de compte;du 01/01/2026 au 31/01/2026
Titulaire;SARL LE JASMIN
RIB;"=""08 006 0123456789012 34"""
Solde initial;12.450,250

Date opération;Date valeur;Libellé;Débit;Crédit;Solde
05/01/2026;05/01/2026;VERSEMENT ESPECES AG. LAC;;1 250,000;13.700,250
06/01/2026;07/01/2026;PRLV STEG FACT 2601;187,400;;13.512,850
Total des mouvements;;;187,400;1 250,000;
`

	lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, date(2026, 1, 5), lines[0].Date)
	assert.Equal(t, "VERSEMENT ESPECES AG. LAC", lines[0].Label)
	assert.True(t, lines[0].Amount.Equal(dec("1250")), lines[0].Amount.String())

	assert.Equal(t, date(2026, 1, 6), lines[1].Date)
	assert.Equal(t, "PRLV STEG FACT 2601", lines[1].Label)
	assert.True(t, lines[1].Amount.Equal(dec("-187.4")), lines[1].Amount.String())
}

func TestParser_Releve(t *testing.T) {
	csv := `Date ;Libellé ;Montant ;
12-02-2026 ;Vers. espèces  caisse ;850.500 ;
13-02-2026 ;Frais tenue de compte ;-6.000 ;
 ; ;Page 1/1 ;
`

	lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, date(2026, 2, 12), lines[0].Date)
	assert.Equal(t, "Vers. espèces caisse", lines[0].Label)
	assert.True(t, lines[0].Amount.Equal(dec("850.5")))

	assert.True(t, lines[1].Amount.Equal(dec("-6")))
}

func TestParser_Amounts(t *testing.T) {
	type testCase struct {
		name string
		cell string
		want string
	}

	tests := []testCase{
		{name: "CommaDecimal", cell: "150,000", want: "150"},
		{name: "DotDecimal", cell: "150.000", want: "150"},
		{name: "SpaceThousands", cell: "1 234,500", want: "1234.5"},
		{name: "DotThousands", cell: "1.234,500", want: "1234.5"},
		{name: "CommaThousands", cell: "1,234.500", want: "1234.5"},
		{name: "ManyDots", cell: "1.234.567", want: "1234567"},
		{name: "CurrencySuffix", cell: "75,250 TND", want: "75.25"},
		{name: "Negative", cell: "-12,300", want: "-12.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Date;Libellé;Montant\n01/03/2026;TEST;" + tt.cell + "\n"

			lines, err := statement.NewParser().Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.True(t, lines[0].Amount.Equal(dec(tt.want)), "got %s", lines[0].Amount)
		})
	}
}

func TestParser_DebitIsAlwaysNegative(t *testing.T) {
	csv := "Date opération;Libellé;Débit;Crédit\n01/03/2026;AGIOS;-4,500;\n"

	lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Amount.Equal(dec("-4.5")))
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "Date opération;Libellé;Débit;Crédit\n02/01/2026;Dépôt espèces guichet;;300,000\n"

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	lines, err := statement.NewParser().Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Dépôt espèces guichet", lines[0].Label)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Banque;Exemple
Montant;Libellé;Date;Autre
20,000;ORDRE;30-01-2026;XXX
`

	lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "ORDRE", lines[0].Label)
	assert.Equal(t, date(2026, 1, 30), lines[0].Date)
}

func TestParser_RestrictedProfiles(t *testing.T) {
	csv := "Date;Libellé;Montant\n01/03/2026;TEST;1,000\n"

	_, err := statement.NewParser(statement.Profiles[0]).Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching statement format")
}

func TestParser_HeaderOnly(t *testing.T) {
	lines, err := statement.NewParser().Parse(strings.NewReader("Date opération;Libellé;Débit;Crédit"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParser_MissingLabel(t *testing.T) {
	csv := "Date;Libellé;Montant\n30-01-2026;;-10,000\n"

	_, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}
