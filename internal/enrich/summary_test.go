package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnenrich/internal/model"
)

func TestSummarize(t *testing.T) {
	coffee := model.Industry{Tier1: "Food & Beverage", Tier2: "Coffee Shops", Source: model.SourceBrand}
	grocery := model.Industry{Tier1: "Retail", Tier2: "Supermarkets", Source: model.SourceMCC}

	rows := []model.EnrichedTransaction{
		{Transaction: model.Transaction{Amount: "4.50", Currency: "SGD"}, Brand: model.PredictedBrand("starbucks", 0.9), Industry: coffee},
		{Transaction: model.Transaction{Amount: "5.25", Currency: "SGD"}, Brand: model.PredictedBrand("starbucks", 0.8), Industry: coffee},
		{Transaction: model.Transaction{Amount: "30.10", Currency: "HKD"}, Brand: model.PredictedBrand("starbucks", 0.7), Industry: coffee},
		{Transaction: model.Transaction{Amount: "0.1", Currency: "SGD"}, Brand: model.OtherBrand(0.1), Industry: grocery},
		{Transaction: model.Transaction{Amount: "0.2", Currency: "SGD"}, Brand: model.OtherBrand(0.1), Industry: grocery},
		{Transaction: model.Transaction{Amount: "7", Currency: "MYR"}},
		{Transaction: model.Transaction{Amount: "seven", Currency: "MYR"}},
		{Transaction: model.Transaction{Amount: ""}},
	}

	s := Summarize(rows)
	assert.Equal(t, 8, s.Rows)
	assert.Equal(t, 3, s.Predicted)
	assert.Equal(t, 2, s.Other)
	assert.Equal(t, 3, s.Unknown)
	assert.Equal(t, 3, s.BySource[model.SourceBrand])
	assert.Equal(t, 2, s.BySource[model.SourceMCC])
	assert.Equal(t, 3, s.BySource[model.SourceNone])
	assert.Equal(t, 1, s.BadAmounts)

	require.Len(t, s.Spend, 4)
	assert.Equal(t, Unclassified, s.Spend[0].Industry)
	assert.Equal(t, "7", s.Spend[0].Total.String())

	assert.Equal(t, "Food & Beverage", s.Spend[1].Industry)
	assert.Equal(t, "HKD", s.Spend[1].Currency)
	assert.Equal(t, "SGD", s.Spend[2].Currency)
	assert.Equal(t, "9.75", s.Spend[2].Total.StringFixed(2))
	assert.Equal(t, 2, s.Spend[2].Count)

	assert.Equal(t, "Retail", s.Spend[3].Industry)
	assert.Equal(t, "0.3", s.Spend[3].Total.String(), "decimal sums are exact")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Rows)
	assert.Empty(t, s.Spend)
}
