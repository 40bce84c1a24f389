package industry

import "github.com/cleared-dev/txnenrich/internal/model"

// BrandEntry maps a brand name to its industry.
type BrandEntry struct {
	Brand string
	Tier1 string
	Tier2 string
}

// MCCEntry maps a merchant category code to its industry.
type MCCEntry struct {
	Code  int
	Tier1 string
	Tier2 string
}

// DefaultBrandTable returns the built-in brand overrides.
func DefaultBrandTable() []BrandEntry {
	return []BrandEntry{
		{Brand: "starbucks", Tier1: "Food & Beverage", Tier2: "Coffee Shops"},
		{Brand: "mcdonalds", Tier1: "Food & Beverage", Tier2: "Fast Food"},
		{Brand: "fairprice", Tier1: "Retail", Tier2: "Supermarkets"},
		{Brand: "grab", Tier1: "Transport", Tier2: "Ride Hailing"},
		{Brand: "shell", Tier1: "Transport", Tier2: "Fuel"},
	}
}

// DefaultMCCTable returns the built-in MCC lookup.
func DefaultMCCTable() []MCCEntry {
	return []MCCEntry{
		{Code: 5814, Tier1: "Food & Beverage", Tier2: "Coffee Shops"},
		{Code: 5411, Tier1: "Retail", Tier2: "Supermarkets"},
		{Code: 5541, Tier1: "Transport", Tier2: "Fuel"},
		{Code: 5732, Tier1: "Retail", Tier2: "Electronics"},
		{Code: 5912, Tier1: "Retail", Tier2: "Pharmacy"},
		{Code: 4121, Tier1: "Transport", Tier2: "Ride Hailing"},
	}
}

func (e BrandEntry) industry() model.Industry {
	return model.Industry{Tier1: e.Tier1, Tier2: e.Tier2, Source: model.SourceBrand}
}

func (e MCCEntry) industry() model.Industry {
	return model.Industry{Tier1: e.Tier1, Tier2: e.Tier2, Source: model.SourceMCC}
}
