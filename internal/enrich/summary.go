package enrich

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// Unclassified labels spend whose industry could not be resolved.
const Unclassified = "(unclassified)"

// Spend is the total amount for one tier-1 industry in one currency.
type Spend struct {
	Industry string
	Currency string
	Total    decimal.Decimal
	Count    int
}

// Summary counts the outcomes of an enrichment run.
type Summary struct {
	Rows      int
	Predicted int
	Other     int
	Unknown   int
	BySource  map[model.IndustrySource]int
	Spend     []Spend
	// BadAmounts counts rows whose AMOUNT was present but not a number.
	BadAmounts int
}

type spendKey struct {
	industry string
	currency string
}

// Summarize tallies brand outcomes, industry sources and spend. Spend lines
// are sorted by industry then currency; blank amounts are ignored.
func Summarize(rows []model.EnrichedTransaction) Summary {
	s := Summary{
		Rows:     len(rows),
		BySource: make(map[model.IndustrySource]int),
	}
	spend := make(map[spendKey]*Spend)

	for _, r := range rows {
		switch r.Brand.Status {
		case model.BrandPredicted:
			s.Predicted++
		case model.BrandOther:
			s.Other++
		default:
			s.Unknown++
		}
		s.BySource[r.Industry.Source]++

		amount, ok := r.AmountValue()
		if !ok {
			if strings.TrimSpace(r.Amount) != "" {
				s.BadAmounts++
			}
			continue
		}
		key := spendKey{industry: r.Industry.Tier1, currency: r.Currency}
		if key.industry == "" {
			key.industry = Unclassified
		}
		line, ok := spend[key]
		if !ok {
			line = &Spend{Industry: key.industry, Currency: key.currency}
			spend[key] = line
		}
		line.Total = line.Total.Add(amount)
		line.Count++
	}

	for _, line := range spend {
		s.Spend = append(s.Spend, *line)
	}
	sort.Slice(s.Spend, func(i, j int) bool {
		if s.Spend[i].Industry != s.Spend[j].Industry {
			return s.Spend[i].Industry < s.Spend[j].Industry
		}
		return s.Spend[i].Currency < s.Spend[j].Currency
	})
	return s
}
