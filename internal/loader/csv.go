package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"macrowatch/models"
)

// columnRenames maps raw source column names to canonical panel fields.
// The Portuguese names come from the national statistics export; the English
// ones are accepted as aliases. Unmapped columns are dropped.
var columnRenames = map[string]models.Field{
	"PIB_var_homologa":           models.FieldGDPGrowth,
	"GDP_YoY_Growth":             models.FieldGDPGrowth,
	"Credito_Empresas_Total":     models.FieldCorporateCredit,
	"Total_Corporate_Credit":     models.FieldCorporateCredit,
	"Credito_Particulares_Total": models.FieldHouseholdCredit,
	"Total_Household_Credit":     models.FieldHouseholdCredit,
	"Endividamento_Total":        models.FieldTotalDebt,
	"Total_Debt":                 models.FieldTotalDebt,
}

const dateLayout = "2006-01-02"

// LoadCSV reads the quarterly panel from a CSV file on disk.
func LoadCSV(path string) (models.Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.LoadError{Reason: err.Error()}
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV parses a panel CSV. The first column is the period end-date index;
// the remaining headers are matched against the static rename map. All four
// canonical fields must be present and numeric for every row, and dates must
// be strictly increasing.
func ParseCSV(r io.Reader) (models.Panel, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, &models.LoadError{Reason: "cannot read header: " + err.Error()}
	}
	if len(header) < 2 {
		return nil, &models.LoadError{Reason: "source has no data columns"}
	}

	fieldCol := make(map[models.Field]int)
	for i := 1; i < len(header); i++ {
		if f, ok := columnRenames[strings.TrimSpace(header[i])]; ok {
			fieldCol[f] = i
		}
	}
	for _, f := range models.Fields {
		if _, ok := fieldCol[f]; !ok {
			return nil, &models.LoadError{Reason: fmt.Sprintf("required column for %s missing from source", f)}
		}
	}

	var panel models.Panel
	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &models.LoadError{Reason: fmt.Sprintf("row %d: %v", rowNum, err)}
		}

		rec := models.Record{}
		rec.Date, err = time.Parse(dateLayout, strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &models.LoadError{Reason: fmt.Sprintf("row %d: unparsable date %q", rowNum, row[0])}
		}
		for f, col := range fieldCol {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, &models.LoadError{Reason: fmt.Sprintf("row %d: column %s is not numeric: %q", rowNum, f, row[col])}
			}
			rec.Set(f, v)
		}
		panel = append(panel, rec)
	}

	if len(panel) == 0 {
		return nil, &models.LoadError{Reason: "source contains no rows"}
	}
	for i := 1; i < len(panel); i++ {
		if !panel[i].Date.After(panel[i-1].Date) {
			return nil, &models.LoadError{
				Reason: fmt.Sprintf("dates are not strictly increasing at %s", panel[i].Date.Format(dateLayout)),
			}
		}
	}
	return panel, nil
}
