package pipeline

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"macrowatch/config"
	"macrowatch/internal/consensus"
	"macrowatch/internal/detector"
	"macrowatch/models"
)

// Pipeline runs the three detectors over a panel and aggregates their flags.
// Results are memoized on the panel fingerprint, so re-running with an
// unchanged panel skips the expensive decomposition and forecast fits.
type Pipeline struct {
	isoCfg      detector.IsoForestConfig
	stlCfg      detector.STLConfig
	forecastCfg detector.ForecastConfig

	mu       sync.Mutex
	lastHash string
	lastRes  *models.Result
}

// New creates a pipeline from the application configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		isoCfg: detector.IsoForestConfig{
			Trees:         cfg.IsoForestTrees,
			SampleSize:    cfg.IsoForestSampleSize,
			Contamination: cfg.IsoForestContamination,
			Seed:          cfg.IsoForestSeed,
		},
		stlCfg: detector.STLConfig{
			SeasonalPeriod: cfg.STLSeasonalPeriod,
			TrendWindow:    cfg.STLTrendWindow,
			Multiplier:     cfg.STLMultiplier,
		},
		forecastCfg: detector.ForecastConfig{
			IntervalWidth: cfg.ForecastIntervalWidth,
			FourierOrder:  cfg.ForecastFourierOrder,
		},
	}
}

// Run computes the flag table for the panel. A degenerate panel is fatal;
// any other single-detector failure is reported as a warning and the
// remaining detectors' flags still make it into the result.
func (p *Pipeline) Run(panel models.Panel) (*models.Result, error) {
	hash := panel.Fingerprint()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastRes != nil && p.lastHash == hash {
		log.Debug().Str("fingerprint", hash[:12]).Msg("panel unchanged, returning cached result")
		return p.lastRes, nil
	}

	var warnings []models.DetectorWarning

	iso, err := detector.IsoForest(panel, p.isoCfg)
	if err != nil {
		var degenerate *models.DegenerateInputError
		if errors.As(err, &degenerate) {
			// Standardization is broken for every detector's benefit; there
			// is nothing meaningful to show.
			return nil, err
		}
		log.Warn().Err(err).Msg("isolation forest detector failed, continuing without it")
		warnings = append(warnings, models.DetectorWarning{Detector: "isoforest", Err: err})
		iso = nil
	}

	stl, residuals, err := detector.STL(panel, p.stlCfg)
	if err != nil {
		log.Warn().Err(err).Msg("decomposition detector failed, continuing without it")
		warnings = append(warnings, models.DetectorWarning{Detector: "stl", Err: err})
		stl = nil
	}

	prophet, _, err := detector.Forecast(panel, p.forecastCfg)
	if err != nil {
		log.Warn().Err(err).Msg("forecast detector failed, continuing without it")
		warnings = append(warnings, models.DetectorWarning{Detector: "prophet", Err: err})
		prophet = nil
	}

	res := consensus.Aggregate(panel, iso, stl, prophet, residuals, warnings)
	p.lastHash, p.lastRes = hash, res
	return res, nil
}
