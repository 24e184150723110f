package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrowatch/config"
	"macrowatch/internal/loader"
	"macrowatch/internal/pipeline"
	"macrowatch/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	log.Info().
		Str("source", cfg.PanelSource).
		Int("trees", cfg.IsoForestTrees).
		Float64("contamination", cfg.IsoForestContamination).
		Int("seasonal_period", cfg.STLSeasonalPeriod).
		Float64("interval_width", cfg.ForecastIntervalWidth).
		Msg("starting anomaly scan")

	panel, err := loadPanel(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("panel load failed")
	}
	log.Info().Int("quarters", len(panel)).Msg("panel loaded")

	result, err := pipeline.New(cfg).Run(panel)
	if err != nil {
		log.Fatal().Err(err).Msg("anomaly computation failed")
	}

	render(result)
}

func loadPanel(cfg *config.Config) (models.Panel, error) {
	switch cfg.PanelSource {
	case "postgres":
		pg, err := loader.NewPG(loader.ConnectionParams{
			Host:     cfg.PGHost,
			Port:     cfg.PGPort,
			User:     cfg.PGUser,
			Password: cfg.PGPassword,
			DBName:   cfg.PGDatabase,
			SSLMode:  cfg.PGSSLMode,
		})
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		return pg.LoadPanel()
	case "http":
		return loader.NewRemote(loader.RemoteOptions{}).Fetch(context.Background(), cfg.PanelURL)
	default:
		return loader.LoadCSV(cfg.PanelCSVPath)
	}
}

func render(result *models.Result) {
	for _, w := range result.Warnings {
		fmt.Printf("WARNING: %s detector failed and was excluded: %v\n", w.Detector, w.Err)
	}

	flagged := result.Flagged()
	fmt.Printf("\n===== FLAGGED QUARTERS (%d) =====\n", len(flagged))
	fmt.Printf("%-12s %10s %12s %12s %12s  %s %s %s  %s\n",
		"date", "gdp", "corp_credit", "hh_credit", "total_debt", "iso", "stl", "pro", "count")
	for _, row := range flagged {
		fmt.Printf("%-12s %10.2f %12.2f %12.2f %12.2f  %3d %3d %3d  %5d\n",
			row.Date.Format("2006-01-02"),
			row.GDPGrowth, row.CorporateCredit, row.HouseholdCredit, row.TotalDebt,
			boolToInt(row.FlagIsoForest), boolToInt(row.FlagSTL), boolToInt(row.FlagProphet),
			row.AnomalyCount)
	}

	cons := result.Consensus()
	fmt.Printf("\nConsensus quarters (flagged by more than one model): %d\n", len(cons))
	for _, row := range cons {
		fmt.Printf("- %s (%d models)\n", row.Date.Format("2006-01-02"), row.AnomalyCount)
	}

	latest, ok := result.Latest()
	if !ok {
		return
	}
	switch {
	case latest.AnomalyCount > 1:
		fmt.Printf("\nALERT: latest quarter %s flagged by %d models\n",
			latest.Date.Format("2006-01-02"), latest.AnomalyCount)
	case latest.AnomalyCount == 1:
		fmt.Printf("\nALERT: latest quarter %s flagged by one model\n",
			latest.Date.Format("2006-01-02"))
	default:
		fmt.Printf("\nLatest quarter %s shows no anomalies\n", latest.Date.Format("2006-01-02"))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
