package brand

import (
	"errors"
	"fmt"
	"math"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// DefaultThreshold is the minimum top-1 confidence for accepting a brand.
const DefaultThreshold = 0.25

// ErrInvalidThreshold is returned for thresholds outside [0,1].
var ErrInvalidThreshold = errors.New("confidence threshold must be within [0,1]")

// ValidateThreshold checks that t is a usable confidence threshold.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}

// Assign applies the threshold policy to a top-1 prediction:
// no prediction is unknown, confidence below threshold is Other, anything
// else is the predicted label verbatim.
func Assign(pred model.Prediction, ok bool, threshold float64) model.Brand {
	if !ok {
		return model.UnknownBrand
	}
	if pred.Confidence < threshold {
		return model.OtherBrand(pred.Confidence)
	}
	return model.PredictedBrand(pred.Brand, pred.Confidence)
}

// AssignRanked applies Assign to the head of a ranking.
func AssignRanked(preds []model.Prediction, threshold float64) model.Brand {
	if len(preds) == 0 {
		return model.UnknownBrand
	}
	return Assign(preds[0], true, threshold)
}
