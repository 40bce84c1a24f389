// Package synth generates seeded synthetic transactions and labeled brand
// training data.
package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnenrich/internal/brandmodel"
	"github.com/cleared-dev/txnenrich/internal/model"
	"github.com/cleared-dev/txnenrich/internal/normalize"
)

// Output file names.
const (
	RawFile      = "synthetic_raw_transactions.csv"
	TrainingFile = "brand_training.csv"
)

// Brand is a reference merchant with its usual MCC.
type Brand struct {
	Name string
	MCC  int
}

// Location is a city with its country code and currency.
type Location struct {
	City     string
	Country  string
	Currency string
}

// Brands are the merchants synthetic transactions are drawn from.
var Brands = []Brand{
	{"Starbucks", 5814},
	{"McDonalds", 5814},
	{"FairPrice", 5411},
	{"Grab", 4121},
	{"Shell", 5541},
	{"Apple Store", 5732},
	{"Guardian", 5912},
}

// Locations are the places synthetic transactions happen.
var Locations = []Location{
	{"Singapore", "SG", "SGD"},
	{"Hong Kong", "HK", "HKD"},
	{"Kuala Lumpur", "MY", "MYR"},
	{"Bangkok", "TH", "THB"},
	{"Tokyo", "JP", "JPY"},
	{"Sydney", "AU", "AUD"},
	{"London", "GB", "GBP"},
}

const (
	timestampLayout = "2006-01-02 15:04:05"
	maxOtherLen     = 15
)

// Options controls generation.
type Options struct {
	Rows   int   // raw transactions, default 5000
	Others int   // "Other" training rows, default 3000, negative for none
	Seed   int64 // default 42
	// Now anchors the six month timestamp window; defaults to time.Now.
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.Rows == 0 {
		o.Rows = 5000
	}
	if o.Others == 0 {
		o.Others = 3000
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Dataset is the generator output.
type Dataset struct {
	Raw      model.Table
	Training []brandmodel.Example
}

// Generate produces raw transactions plus training rows: one labeled row per
// transaction followed by the "Other" rows. Equal options give equal output.
func Generate(opts Options) Dataset {
	opts = opts.withDefaults()
	f := gofakeit.New(opts.Seed)
	start := opts.Now.AddDate(0, -6, 0)

	ds := Dataset{Raw: model.Table{Columns: model.InputColumns}}
	for i := range opts.Rows {
		b := Brands[f.Number(0, len(Brands)-1)]
		loc := Locations[f.Number(0, len(Locations)-1)]
		amount := decimal.NewFromFloat(f.Float64Range(1, 2000)).Round(2)

		txn := model.Transaction{
			ID:          strconv.Itoa(i + 1),
			RawMerchant: noisyMerchant(f, b.Name),
			MCCCode:     strconv.Itoa(b.MCC),
			Amount:      amount.StringFixed(2),
			Currency:    loc.Currency,
			Timestamp:   f.DateRange(start, opts.Now).UTC().Format(timestampLayout),
			City:        loc.City,
			Country:     loc.Country,
		}
		ds.Raw.Rows = append(ds.Raw.Rows, txn)
		ds.Training = append(ds.Training, brandmodel.Example{
			Text:  normalize.Merchant(txn.RawMerchant),
			Label: b.Name,
		})
	}

	for range max(opts.Others, 0) {
		name := []rune(f.Company())
		if len(name) > maxOtherLen {
			name = name[:maxOtherLen]
		}
		ds.Training = append(ds.Training, brandmodel.Example{
			Text:  normalize.Merchant(string(name)),
			Label: model.OtherLabel,
		})
	}
	return ds
}

// noisyMerchant renders a brand the way card statements tend to.
func noisyMerchant(f *gofakeit.Faker, name string) string {
	switch f.Number(0, 4) {
	case 0:
		return fmt.Sprintf("%s #%d", strings.ToUpper(name), f.Number(1, 999))
	case 1:
		return name + " " + f.City()
	case 2:
		cut := min(4, len(name))
		return name[:cut] + "*" + name[cut:]
	case 3:
		return strings.ToUpper(name) + "-" + f.RandomString([]string{"Mall", "TST", "HQ"})
	default:
		return strings.ToUpper(name)
	}
}

// WriteTable writes raw transactions as CSV in the table's column order.
func WriteTable(w io.Writer, table model.Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(table.Columns))
	for i, txn := range table.Rows {
		for j, c := range table.Columns {
			row[j] = txn.Get(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles writes RawFile and TrainingFile into dir and returns their paths.
func WriteFiles(dir string, ds Dataset) (rawPath, trainPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating data dir: %w", err)
	}

	rawPath = filepath.Join(dir, RawFile)
	if err := writeFile(rawPath, func(w io.Writer) error { return WriteTable(w, ds.Raw) }); err != nil {
		return "", "", err
	}
	trainPath = filepath.Join(dir, TrainingFile)
	if err := writeFile(trainPath, func(w io.Writer) error { return brandmodel.WriteTrainingCSV(w, ds.Training) }); err != nil {
		return "", "", err
	}
	return rawPath, trainPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
