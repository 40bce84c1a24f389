package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMCC(t *testing.T) {
	tests := []struct {
		input string
		want  MCC
	}{
		{"5814", NewMCC(5814)},
		{" 5411 ", NewMCC(5411)},
		{"5814.0", NewMCC(5814)},
		{"-1", NewMCC(-1)},
		{"", MCC{}},
		{"abc", MCC{}},
		{"5814.5", MCC{}},
		{"NaN", MCC{}},
		{"1e300", MCC{}},
		{"1e3", MCC{}},
		{"0x1p4", MCC{}},
		{"5814.00", NewMCC(5814)},
		{"5814.", NewMCC(5814)},
		{".0", MCC{}},
		{"5814.0.0", MCC{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMCC(tt.input), "ParseMCC(%q)", tt.input)
	}
}

func TestMCCString(t *testing.T) {
	assert.Equal(t, "5814", NewMCC(5814).String())
	assert.Empty(t, MCC{}.String())
}

func TestBrandString(t *testing.T) {
	assert.Empty(t, UnknownBrand.String())
	assert.Equal(t, "Other", OtherBrand(0.1).String())
	assert.Equal(t, "starbucks", PredictedBrand("starbucks", 0.9).String())

	assert.False(t, UnknownBrand.Known())
	assert.True(t, OtherBrand(0.1).Known())
}

func TestEnrichedTransactionGet(t *testing.T) {
	e := EnrichedTransaction{
		Transaction:     Transaction{ID: "1", RawMerchant: "STARBUCKS #123", MCCCode: "5814"},
		CleanedMerchant: "starbucks",
		Brand:           PredictedBrand("starbucks", 0.9),
		Industry:        Industry{Tier1: "Food & Beverage", Tier2: "Coffee Shops", Source: SourceBrand},
	}

	assert.Equal(t, "1", e.Get(ColTxnID))
	assert.Equal(t, "STARBUCKS #123", e.Get(ColRawMerchant))
	assert.Equal(t, "starbucks", e.Get(ColCleanedMerchant))
	assert.Equal(t, "starbucks", e.Get(ColBrandPred))
	assert.Equal(t, "Food & Beverage", e.Get(ColIndustryT1))
	assert.Equal(t, "Coffee Shops", e.Get(ColIndustryT2))
	assert.Empty(t, e.Get("UNKNOWN"))
}

func TestTransactionAmountValue(t *testing.T) {
	d, ok := Transaction{Amount: "12.50"}.AmountValue()
	assert.True(t, ok)
	assert.Equal(t, "12.50", d.StringFixed(2))

	_, ok = Transaction{Amount: ""}.AmountValue()
	assert.False(t, ok)

	_, ok = Transaction{Amount: "twelve"}.AmountValue()
	assert.False(t, ok)
}
