package charts

import "herdboard/internal/models"

// Slot binds one series key to a target element and a presentation
type Slot struct {
	Key      models.SeriesKey `json:"key"`
	TargetID string           `json:"target"`
	Kind     Kind             `json:"kind"`
	Label    string           `json:"label"`
}

// DashboardSlots is the fixed presentation table of the herd, tracking and costs dashboards.
// by-batch appears twice: animal counts on the herd tab and expenses on the costs tab.
var DashboardSlots = []Slot{
	{Key: models.SeriesByBatch, TargetID: "chart-by-batch", Kind: KindBar, Label: "Animals"},
	{Key: models.SeriesBySpecies, TargetID: "chart-by-species", Kind: KindDoughnut, Label: "Animals"},
	{Key: models.SeriesBySex, TargetID: "chart-by-sex", Kind: KindPie, Label: "Animals"},
	{Key: models.SeriesMonthlyWeights, TargetID: "chart-monthly-weights", Kind: KindLine, Label: "Average weight (kg)"},
	{Key: models.SeriesMonthlyProduction, TargetID: "chart-monthly-production", Kind: KindBar, Label: "Production"},
	{Key: models.SeriesByExpenseType, TargetID: "chart-by-expense-type", Kind: KindDoughnut, Label: "Expenses"},
	{Key: models.SeriesByBatch, TargetID: "chart-by-batch-expenses", Kind: KindBar, Label: "Expenses"},
	{Key: models.SeriesMonthlyExpense, TargetID: "chart-monthly-expense", Kind: KindLine, Label: "Monthly expense ($)"},
}
