package lineitem_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recette/internal/lineitem"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name     string
		raw      any
		category lineitem.Category
		want     []lineitem.Item
	}

	tests := []testCase{
		{
			name:     "PurchaseUsesSupplierAlias",
			raw:      `[{"supplier":"Sonede","amount":"150.000"}]`,
			category: lineitem.CategoryPurchase,
			want: []lineitem.Item{
				{Category: lineitem.CategoryPurchase, Name: "Sonede", Amount: dec("150.000"), Source: lineitem.SourceManual},
			},
		},
		{
			name:     "MiscUsesDesignationAlias",
			raw:      `[{"designation":"Gaz","amount":12.5},{"designation":"Pain","amount":"3,200"}]`,
			category: lineitem.CategoryMisc,
			want: []lineitem.Item{
				{Category: lineitem.CategoryMisc, Name: "Gaz", Amount: dec("12.5"), Source: lineitem.SourceManual},
				{Category: lineitem.CategoryMisc, Name: "Pain", Amount: dec("3.200"), Source: lineitem.SourceManual},
			},
		},
		{
			name:     "InvalidText",
			raw:      "pas du json",
			category: lineitem.CategoryMisc,
			want:     []lineitem.Item{},
		},
		{
			name:     "JSONObjectInsteadOfList",
			raw:      `{"designation":"Gaz"}`,
			category: lineitem.CategoryDaily,
			want:     []lineitem.Item{},
		},
		{
			name:     "Nil",
			raw:      nil,
			category: lineitem.CategoryAdmin,
			want:     []lineitem.Item{},
		},
		{
			name:     "Null",
			raw:      "null",
			category: lineitem.CategoryAdmin,
			want:     []lineitem.Item{},
		},
		{
			name:     "BadAmountCountsAsZero",
			raw:      []byte(`[{"designation":"Timbre","amount":"abc"}, 42]`),
			category: lineitem.CategoryAdmin,
			want: []lineitem.Item{
				{Category: lineitem.CategoryAdmin, Name: "Timbre", Amount: decimal.Zero, Source: lineitem.SourceManual},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineitem.Decode(tt.raw, tt.category)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.Equal(t, tt.want[i].Name, got[i].Name)
				assert.Equal(t, tt.want[i].Category, got[i].Category)
				assert.Equal(t, tt.want[i].Source, got[i].Source)
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "amount %s != %s", tt.want[i].Amount, got[i].Amount)
			}
		})
	}
}

func TestDecode_PassesListsThrough(t *testing.T) {
	in := []lineitem.Item{
		{Name: "Steg", Amount: dec("80.000"), Source: lineitem.SourceInvoice, PaymentMethod: "cheque"},
	}

	got := lineitem.Decode(in, lineitem.CategoryPurchase)
	require.Len(t, got, 1)
	assert.Equal(t, lineitem.CategoryPurchase, got[0].Category)
	assert.Equal(t, lineitem.SourceInvoice, got[0].Source)
	assert.Equal(t, "cheque", got[0].PaymentMethod)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, c := range lineitem.Categories {
		t.Run(string(c), func(t *testing.T) {
			items := []lineitem.Item{
				{Category: c, Name: "Huile", Amount: dec("45.750"), Source: lineitem.SourceManual},
				{Category: c, Name: "Café", Amount: dec("7"), Source: lineitem.SourceManual},
				{Category: c, Name: "", Amount: dec("0.001"), Source: lineitem.SourceManual},
			}

			got := lineitem.Decode(lineitem.Encode(items, c), c)
			assert.Equal(t, items, got)
		})
	}
}

func TestEncode_UsesCategoryAlias(t *testing.T) {
	items := []lineitem.Item{{Name: "Sonede", Amount: dec("150.000")}}

	assert.JSONEq(t, `[{"supplier":"Sonede","amount":"150.000"}]`, lineitem.Encode(items, lineitem.CategoryPurchase))
	assert.JSONEq(t, `[{"designation":"Sonede","amount":"150.000"}]`, lineitem.Encode(items, lineitem.CategoryAdmin))
	assert.Equal(t, "[]", lineitem.Encode(nil, lineitem.CategoryMisc))
}

func TestManual(t *testing.T) {
	items := []lineitem.Item{
		{Name: "Sonede", Amount: dec("150"), Source: lineitem.SourceManual},
		{Name: "Steg", Amount: dec("80"), Source: lineitem.SourceInvoice},
	}

	got := lineitem.Manual(items)
	require.Len(t, got, 1)
	assert.Equal(t, "Sonede", got[0].Name)
	assert.True(t, lineitem.Sum(items).Equal(dec("230")))
}

func TestManual_DropsItemsLinkedToInvoice(t *testing.T) {
	id := uuid.New()
	items := []lineitem.Item{
		{Name: "Sonede", Amount: dec("150"), Source: lineitem.SourceManual},
		{Name: "Steg", Amount: dec("80"), Source: lineitem.SourceManual, InvoiceID: &id},
	}

	got := lineitem.Manual(items)
	require.Len(t, got, 1)
	assert.Equal(t, "Sonede", got[0].Name)
	assert.True(t, items[1].FromInvoice())
}
