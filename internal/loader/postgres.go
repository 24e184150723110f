package loader

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"macrowatch/models"
)

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PG loads the quarterly panel from a PostgreSQL table.
type PG struct {
	db *sql.DB
}

// NewPG creates a new database-backed panel loader
func NewPG(params ConnectionParams) (*PG, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PG{db: db}, nil
}

// Close releases the database connection
func (p *PG) Close() error {
	return p.db.Close()
}

// LoadPanel reads the quarterly_panel table in period order.
func (p *PG) LoadPanel() (models.Panel, error) {
	rows, err := p.db.Query(`
		SELECT period_date, gdp_yoy_growth, corporate_credit, household_credit, total_debt
		FROM quarterly_panel
		ORDER BY period_date
	`)
	if err != nil {
		return nil, &models.LoadError{Reason: "query panel: " + err.Error()}
	}
	defer rows.Close()

	var panel models.Panel
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.Date, &rec.GDPGrowth, &rec.CorporateCredit, &rec.HouseholdCredit, &rec.TotalDebt); err != nil {
			return nil, &models.LoadError{Reason: "scan panel row: " + err.Error()}
		}
		panel = append(panel, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.LoadError{Reason: "read panel rows: " + err.Error()}
	}
	if len(panel) == 0 {
		return nil, &models.LoadError{Reason: "quarterly_panel table is empty"}
	}
	return panel, nil
}
