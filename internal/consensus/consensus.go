package consensus

import "macrowatch/models"

// Aggregate merges the three detectors' flags into the output table. A nil
// flag slice means that detector failed and contributes no flags; the count
// for every period is the exact sum of the remaining booleans.
func Aggregate(panel models.Panel, iso, stl, prophet []bool, residuals map[models.Field][]float64, warnings []models.DetectorWarning) *models.Result {
	rows := make([]models.FlagRow, len(panel))
	for i, rec := range panel {
		row := models.FlagRow{Record: rec}
		if iso != nil && iso[i] {
			row.FlagIsoForest = true
			row.AnomalyCount++
		}
		if stl != nil && stl[i] {
			row.FlagSTL = true
			row.AnomalyCount++
		}
		if prophet != nil && prophet[i] {
			row.FlagProphet = true
			row.AnomalyCount++
		}
		rows[i] = row
	}
	return &models.Result{
		Rows:      rows,
		Warnings:  warnings,
		Residuals: residuals,
	}
}
