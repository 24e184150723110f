package loader

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrowatch/models"
)

const validCSV = `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total,Endividamento_Total,Taxa_Juro
2019-12-31,2.2,101.5,55.1,210.0,1.1
2020-03-31,-2.3,103.0,54.8,215.5,0.9
2020-06-30,-16.4,108.2,54.0,220.1,0.8
`

func TestParseCSVRenamesAndDropsColumns(t *testing.T) {
	panel, err := ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, panel, 3)

	assert.Equal(t, time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC), panel[0].Date)
	assert.InDelta(t, 2.2, panel[0].GDPGrowth, 1e-12)
	assert.InDelta(t, 108.2, panel[2].CorporateCredit, 1e-12)
	assert.InDelta(t, 54.8, panel[1].HouseholdCredit, 1e-12)
	assert.InDelta(t, 220.1, panel[2].TotalDebt, 1e-12)
}

func TestParseCSVAcceptsEnglishAliases(t *testing.T) {
	src := `date,GDP_YoY_Growth,Total_Corporate_Credit,Total_Household_Credit,Total_Debt
2021-03-31,1.5,100,50,200
2021-06-30,1.7,101,51,202
`
	panel, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, panel, 2)
	assert.InDelta(t, 1.7, panel[1].GDPGrowth, 1e-12)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "missing required column",
			src: `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total
2020-03-31,1.0,100,50
`,
		},
		{
			name: "unparsable date",
			src: `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total,Endividamento_Total
Q1-2020,1.0,100,50,200
`,
		},
		{
			name: "non-numeric value",
			src: `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total,Endividamento_Total
2020-03-31,n/a,100,50,200
`,
		},
		{
			name: "dates not strictly increasing",
			src: `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total,Endividamento_Total
2020-06-30,1.0,100,50,200
2020-03-31,1.2,101,51,201
`,
		},
		{
			name: "no rows",
			src: `data,PIB_var_homologa,Credito_Empresas_Total,Credito_Particulares_Total,Endividamento_Total
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.src))
			var loadErr *models.LoadError
			require.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV("testdata/does_not_exist.csv")
	var loadErr *models.LoadError
	require.ErrorAs(t, err, &loadErr)
}
