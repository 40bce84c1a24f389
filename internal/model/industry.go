package model

import (
	"strconv"
	"strings"
)

// Industry is a two-tier industry classification.
type Industry struct {
	Tier1  string
	Tier2  string
	Source IndustrySource
}

// IndustrySource records which lookup produced an Industry.
type IndustrySource string

const (
	SourceNone  IndustrySource = ""
	SourceBrand IndustrySource = "brand"
	SourceMCC   IndustrySource = "mcc"
)

// Resolved reports whether either lookup matched.
func (i Industry) Resolved() bool {
	return i.Source != SourceNone
}

// MCC is an optional merchant category code.
type MCC struct {
	Code  int
	Valid bool
}

// NewMCC returns a present MCC.
func NewMCC(code int) MCC {
	return MCC{Code: code, Valid: true}
}

// ParseMCC coerces text to an MCC. Decimal integer text, optionally with an
// all-zero fraction ("5814.0"), is accepted; anything else, including
// exponent or hex notation, is an absent MCC.
func ParseMCC(s string) MCC {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if strings.Trim(frac, "0") != "" {
		return MCC{}
	}
	n, err := strconv.Atoi(whole)
	if err != nil {
		return MCC{}
	}
	return NewMCC(n)
}

func (m MCC) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.Itoa(m.Code)
}
