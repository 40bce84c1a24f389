package model

// OtherLabel is the sentinel assigned when the model ran but was not confident.
const OtherLabel = "Other"

// Prediction is one (label, confidence) pair from the brand classifier.
type Prediction struct {
	Brand      string
	Confidence float64
}

// BrandStatus distinguishes the three outcomes of brand assignment.
type BrandStatus int

const (
	// BrandUnknown means no model output existed.
	BrandUnknown BrandStatus = iota
	// BrandOther means the top prediction fell below the threshold.
	BrandOther
	// BrandPredicted means the top prediction was accepted.
	BrandPredicted
)

func (s BrandStatus) String() string {
	switch s {
	case BrandOther:
		return "other"
	case BrandPredicted:
		return "predicted"
	default:
		return "unknown"
	}
}

// Brand is an assigned brand. Label is empty unless Status is BrandPredicted
// or BrandOther.
type Brand struct {
	Status     BrandStatus
	Label      string
	Confidence float64
}

// UnknownBrand is the zero Brand.
var UnknownBrand = Brand{}

// OtherBrand returns the reject sentinel carrying the rejected confidence.
func OtherBrand(confidence float64) Brand {
	return Brand{Status: BrandOther, Label: OtherLabel, Confidence: confidence}
}

// PredictedBrand returns an accepted brand.
func PredictedBrand(label string, confidence float64) Brand {
	return Brand{Status: BrandPredicted, Label: label, Confidence: confidence}
}

// Known reports whether a label is present (Other or predicted).
func (b Brand) Known() bool {
	return b.Status != BrandUnknown
}

// String is the brand_pred column value: empty when unknown.
func (b Brand) String() string {
	if b.Status == BrandUnknown {
		return ""
	}
	return b.Label
}
