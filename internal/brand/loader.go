package brand

import (
	"fmt"

	"github.com/cleared-dev/txnenrich/internal/brandmodel"
)

// DefaultModelPath is where `txnenrich train` writes the model artifact.
const DefaultModelPath = "models/brand_classifier.json"

// FileLoader returns a Loader that reads a brandmodel artifact from path.
// A missing file surfaces as an error wrapping fs.ErrNotExist.
func FileLoader(path string) Loader {
	return func() (Model, error) {
		m, err := brandmodel.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading brand model %s: %w", path, err)
		}
		return m, nil
	}
}
