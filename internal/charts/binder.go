package charts

import (
	"fmt"

	"herdboard/internal/dom"
	"herdboard/internal/logger"
	"herdboard/internal/models"
)

// Drawer is the drawing primitive: it renders cfg onto target
type Drawer interface {
	Draw(target *dom.Node, cfg Config) error
}

// DrawerFunc adapts a function to Drawer
type DrawerFunc func(target *dom.Node, cfg Config) error

// Draw calls f
func (f DrawerFunc) Draw(target *dom.Node, cfg Config) error {
	return f(target, cfg)
}

// SkipReason explains why a slot produced no chart
type SkipReason string

const (
	SkipMissingSeries SkipReason = "missing-series"
	SkipMissingTarget SkipReason = "missing-target"
	SkipDrawError     SkipReason = "draw-error"
)

// SlotConfig is a slot together with the configuration built for it
type SlotConfig struct {
	Slot   Slot   `json:"slot"`
	Config Config `json:"config"`
}

// Skipped records a slot that was not drawn
type Skipped struct {
	Slot   Slot       `json:"slot"`
	Reason SkipReason `json:"reason"`
	Error  string     `json:"error,omitempty"`
}

// Result summarizes one bind pass
type Result struct {
	Drawn   []SlotConfig `json:"charts"`
	Skipped []Skipped    `json:"skipped"`
}

// Binder maps a charts payload onto the chart targets of a page
type Binder struct {
	drawer Drawer
	theme  Theme
	slots  []Slot
	log    *logger.Logger
}

// NewBinder creates a binder over the dashboard slot table and the default theme
func NewBinder(drawer Drawer) *Binder {
	return &Binder{
		drawer: drawer,
		theme:  DefaultTheme(),
		slots:  DashboardSlots,
		log:    logger.Component("charts"),
	}
}

// WithTheme returns a copy of the binder using theme
func (b *Binder) WithTheme(theme Theme) *Binder {
	c := *b
	c.theme = theme
	return &c
}

// WithLogger returns a copy of the binder reporting through l
func (b *Binder) WithLogger(l *logger.Logger) *Binder {
	c := *b
	c.log = l
	return &c
}

// Configs builds the configuration of every slot whose series is renderable, without touching a page
func (b *Binder) Configs(payload models.ChartsPayload) Result {
	var result Result
	for _, slot := range b.slots {
		cfg, err := BuildConfig(slot.Kind, payload.Series(slot.Key), slot.Label, b.theme)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Slot: slot, Reason: SkipMissingSeries})
			continue
		}
		result.Drawn = append(result.Drawn, SlotConfig{Slot: slot, Config: cfg})
	}
	return result
}

// Bind draws every renderable series onto its target under root.
// Missing series and missing targets are skipped quietly; a failing draw only loses its own chart.
func (b *Binder) Bind(root *dom.Node, payload models.ChartsPayload) Result {
	var result Result
	for _, slot := range b.slots {
		series := payload.Series(slot.Key)
		if !series.Renderable() {
			result.Skipped = append(result.Skipped, Skipped{Slot: slot, Reason: SkipMissingSeries})
			continue
		}

		target := root.GetElementByID(slot.TargetID)
		if target == nil {
			result.Skipped = append(result.Skipped, Skipped{Slot: slot, Reason: SkipMissingTarget})
			continue
		}

		cfg, err := BuildConfig(slot.Kind, series, slot.Label, b.theme)
		if err == nil {
			err = b.drawer.Draw(target, cfg)
		}
		if err != nil {
			b.log.Error("chart draw failed", err, logger.Fields{"target": slot.TargetID, "kind": string(slot.Kind)})
			result.Skipped = append(result.Skipped, Skipped{Slot: slot, Reason: SkipDrawError, Error: err.Error()})
			continue
		}

		b.log.Debug("chart drawn", logger.Fields{"target": slot.TargetID, "kind": string(slot.Kind), "points": series.Len()})
		result.Drawn = append(result.Drawn, SlotConfig{Slot: slot, Config: cfg})
	}
	return result
}

// BindJSON parses raw as a charts payload and binds it.
// A payload that cannot be parsed aborts every chart and is returned as an error wrapping models.ErrMalformedPayload.
func (b *Binder) BindJSON(root *dom.Node, raw []byte) (Result, error) {
	payload, dropped, err := models.ParseChartsPayload(raw)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse charts payload: %w", err)
	}
	if len(dropped) > 0 {
		b.log.Debug("malformed series ignored", logger.Fields{"keys": dropped})
	}
	return b.Bind(root, payload), nil
}
