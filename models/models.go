package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"
)

// Field is a canonical column name of the quarterly panel.
type Field string

const (
	FieldGDPGrowth       Field = "gdp_yoy_growth"
	FieldCorporateCredit Field = "corporate_credit"
	FieldHouseholdCredit Field = "household_credit"
	FieldTotalDebt       Field = "total_debt"
)

// Fields lists the monitored panel columns in canonical order.
var Fields = []Field{FieldGDPGrowth, FieldCorporateCredit, FieldHouseholdCredit, FieldTotalDebt}

// Record is a single quarter of the panel.
type Record struct {
	Date            time.Time `json:"date"`
	GDPGrowth       float64   `json:"gdp_yoy_growth"`
	CorporateCredit float64   `json:"corporate_credit"`
	HouseholdCredit float64   `json:"household_credit"`
	TotalDebt       float64   `json:"total_debt"`
}

// Value returns the record's value for a canonical field.
func (r Record) Value(f Field) float64 {
	switch f {
	case FieldGDPGrowth:
		return r.GDPGrowth
	case FieldCorporateCredit:
		return r.CorporateCredit
	case FieldHouseholdCredit:
		return r.HouseholdCredit
	default:
		return r.TotalDebt
	}
}

// Set assigns the record's value for a canonical field.
func (r *Record) Set(f Field, v float64) {
	switch f {
	case FieldGDPGrowth:
		r.GDPGrowth = v
	case FieldCorporateCredit:
		r.CorporateCredit = v
	case FieldHouseholdCredit:
		r.HouseholdCredit = v
	default:
		r.TotalDebt = v
	}
}

// Panel is the cleaned quarterly table, sorted ascending by period end-date
// with no missing values.
type Panel []Record

// Dates returns the period end-dates in panel order.
func (p Panel) Dates() []time.Time {
	out := make([]time.Time, len(p))
	for i, r := range p {
		out[i] = r.Date
	}
	return out
}

// Values returns one field as a series in panel order.
func (p Panel) Values(f Field) []float64 {
	out := make([]float64, len(p))
	for i, r := range p {
		out[i] = r.Value(f)
	}
	return out
}

// Matrix returns the panel as rows of the monitored fields, one row per quarter.
func (p Panel) Matrix() [][]float64 {
	out := make([][]float64, len(p))
	for i, r := range p {
		row := make([]float64, len(Fields))
		for j, f := range Fields {
			row[j] = r.Value(f)
		}
		out[i] = row
	}
	return out
}

// Fingerprint returns a content hash of the panel. Pipeline runs are memoized
// on it, so any change to a date or value must change the fingerprint.
func (p Panel) Fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, r := range p {
		binary.BigEndian.PutUint64(buf, uint64(r.Date.Unix()))
		h.Write(buf)
		for _, f := range Fields {
			binary.BigEndian.PutUint64(buf, math.Float64bits(r.Value(f)))
			h.Write(buf)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
