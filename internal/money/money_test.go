package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/recette/internal/money"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name   string
		input  any
		want   string
		wantOK bool
	}

	tests := []testCase{
		{name: "DecimalText", input: "150.000", want: "150", wantOK: true},
		{name: "CommaDecimal", input: "150,5", want: "150.5", wantOK: true},
		{name: "SpacedThousands", input: " 1 200.250 ", want: "1200.25", wantOK: true},
		{name: "JSONNumber", input: json.Number("42.125"), want: "42.125", wantOK: true},
		{name: "Float", input: 0.1, want: "0.1", wantOK: true},
		{name: "Int", input: 7, want: "7", wantOK: true},
		{name: "Bytes", input: []byte("3.5"), want: "3.5", wantOK: true},
		{name: "NilPointer", input: (*decimal.Decimal)(nil), want: "0"},
		{name: "Blank", input: "  ", want: "0"},
		{name: "Garbage", input: "abc", want: "0"},
		{name: "Nil", input: nil, want: "0"},
		{name: "Unsupported", input: true, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := money.Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "150.000", money.Format(decimal.NewFromInt(150)))
	assert.Equal(t, "0.125", money.Format(decimal.RequireFromString("0.1249")))
	assert.Equal(t, "0.000", money.Format(decimal.Zero))
}

func TestSum(t *testing.T) {
	got := money.Sum(decimal.RequireFromString("80.000"), decimal.RequireFromString("150.500"))
	assert.Equal(t, "230.500", money.Format(got))
	assert.True(t, money.Sum().IsZero())
}
