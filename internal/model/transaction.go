package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Input columns.
const (
	ColTxnID       = "TXN_ID"
	ColRawMerchant = "RAW_MERCHANT"
	ColMCCCode     = "MCC_CODE"
	ColAmount      = "AMOUNT"
	ColCurrency    = "CURRENCY"
	ColTimestamp   = "TIMESTAMP"
	ColCity        = "CITY"
	ColCountry     = "COUNTRY"
)

// Derived columns.
const (
	ColCleanedMerchant = "cleaned_merchant"
	ColBrandPred       = "brand_pred"
	ColIndustryT1      = "industry_t1_pred"
	ColIndustryT2      = "industry_t2_pred"
)

// InputColumns lists every recognized input column. Anything else is dropped.
var InputColumns = []string{
	ColTxnID, ColRawMerchant, ColMCCCode, ColAmount,
	ColCurrency, ColTimestamp, ColCity, ColCountry,
}

// OutputColumns is the documented column order of enriched output.
var OutputColumns = []string{
	ColTxnID,
	ColRawMerchant,
	ColCleanedMerchant,
	ColBrandPred,
	ColIndustryT1,
	ColIndustryT2,
	ColMCCCode,
	ColAmount,
	ColCurrency,
	ColTimestamp,
	ColCity,
	ColCountry,
}

// IsDerivedColumn reports whether name is produced by enrichment.
func IsDerivedColumn(name string) bool {
	switch name {
	case ColCleanedMerchant, ColBrandPred, ColIndustryT1, ColIndustryT2:
		return true
	}
	return false
}

// IsInputColumn reports whether name is a recognized input column.
func IsInputColumn(name string) bool {
	for _, c := range InputColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Transaction is one input row. Fields hold the text exactly as read so
// they can be written back unchanged.
type Transaction struct {
	ID          string
	RawMerchant string
	MCCCode     string
	Amount      string
	Currency    string
	Timestamp   string
	City        string
	Country     string
}

// Get returns the value of an input column by name.
func (t Transaction) Get(col string) string {
	switch col {
	case ColTxnID:
		return t.ID
	case ColRawMerchant:
		return t.RawMerchant
	case ColMCCCode:
		return t.MCCCode
	case ColAmount:
		return t.Amount
	case ColCurrency:
		return t.Currency
	case ColTimestamp:
		return t.Timestamp
	case ColCity:
		return t.City
	case ColCountry:
		return t.Country
	}
	return ""
}

// Set assigns an input column by name. Unknown columns are ignored.
func (t *Transaction) Set(col, value string) {
	switch col {
	case ColTxnID:
		t.ID = value
	case ColRawMerchant:
		t.RawMerchant = value
	case ColMCCCode:
		t.MCCCode = value
	case ColAmount:
		t.Amount = value
	case ColCurrency:
		t.Currency = value
	case ColTimestamp:
		t.Timestamp = value
	case ColCity:
		t.City = value
	case ColCountry:
		t.Country = value
	}
}

// MCC coerces the MCC_CODE text.
func (t Transaction) MCC() MCC {
	return ParseMCC(t.MCCCode)
}

// AmountValue parses AMOUNT. ok is false for blank or malformed amounts.
func (t Transaction) AmountValue() (decimal.Decimal, bool) {
	s := strings.TrimSpace(t.Amount)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Table is a set of input rows plus the input columns that were present.
type Table struct {
	Columns []string
	Rows    []Transaction
}

// HasColumn reports whether the input carried col.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// EnrichedTransaction is an input row plus its derived attributes.
type EnrichedTransaction struct {
	Transaction
	CleanedMerchant string
	Brand           Brand
	Industry        Industry
}

// Get returns the value of an input or derived column by name.
func (e EnrichedTransaction) Get(col string) string {
	switch col {
	case ColCleanedMerchant:
		return e.CleanedMerchant
	case ColBrandPred:
		return e.Brand.String()
	case ColIndustryT1:
		return e.Industry.Tier1
	case ColIndustryT2:
		return e.Industry.Tier2
	}
	return e.Transaction.Get(col)
}

// EnrichedTable is the pipeline output.
type EnrichedTable struct {
	Columns []string // input columns, as in Table
	Rows    []EnrichedTransaction
}
