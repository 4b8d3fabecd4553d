package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SeriesKey names one aggregate series in a charts payload
type SeriesKey string

const (
	SeriesByBatch           SeriesKey = "by-batch"
	SeriesBySpecies         SeriesKey = "by-species"
	SeriesBySex             SeriesKey = "by-sex"
	SeriesMonthlyWeights    SeriesKey = "monthly-weights"
	SeriesMonthlyProduction SeriesKey = "monthly-production"
	SeriesByExpenseType     SeriesKey = "by-expense-type"
	SeriesMonthlyExpense    SeriesKey = "monthly-expense"
)

// KnownSeriesKeys lists the series vocabulary the backend may send, in dashboard order
var KnownSeriesKeys = []SeriesKey{
	SeriesByBatch,
	SeriesBySpecies,
	SeriesBySex,
	SeriesMonthlyWeights,
	SeriesMonthlyProduction,
	SeriesByExpenseType,
	SeriesMonthlyExpense,
}

// ErrMalformedPayload is returned when the charts payload is not a JSON object
var ErrMalformedPayload = errors.New("malformed charts payload")

// AggregateSeries pairs ordered labels with numeric values; Labels[i] belongs to Values[i]
type AggregateSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of data points
func (s *AggregateSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels)
}

// Renderable reports whether the series has at least one point and matching lengths
func (s *AggregateSeries) Renderable() bool {
	return s != nil && len(s.Labels) > 0 && len(s.Labels) == len(s.Values)
}

// ChartsPayload maps series keys to the series the backend computed for one page
type ChartsPayload map[SeriesKey]*AggregateSeries

// Series returns the series stored under key, or nil
func (p ChartsPayload) Series(key SeriesKey) *AggregateSeries {
	if p == nil {
		return nil
	}
	return p[key]
}

// ParseChartsPayload decodes a charts payload.
// Only a document that is not a JSON object fails; individual series that are null,
// of the wrong shape or with mismatched lengths are dropped and listed in skipped.
func ParseChartsPayload(raw []byte) (ChartsPayload, []SeriesKey, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if entries == nil {
		return nil, nil, fmt.Errorf("%w: payload is null", ErrMalformedPayload)
	}

	payload := make(ChartsPayload, len(entries))
	var skipped []SeriesKey
	for _, key := range KnownSeriesKeys {
		value, ok := entries[string(key)]
		if !ok {
			continue
		}
		var series *AggregateSeries
		if err := json.Unmarshal(value, &series); err != nil || !series.Renderable() {
			skipped = append(skipped, key)
			continue
		}
		payload[key] = series
	}
	return payload, skipped, nil
}
