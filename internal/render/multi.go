package render

import (
	"herdboard/internal/charts"
	"herdboard/internal/dom"
)

// MultiDrawer draws through Primary, then through every Secondary drawer.
// Only a Primary failure fails the draw. Secondary drawers produce side artifacts, so their
// failures are handed to OnSecondaryError and the chart still counts as drawn.
type MultiDrawer struct {
	Primary          charts.Drawer
	Secondary        []charts.Drawer
	OnSecondaryError func(targetID string, err error)
}

// Draw calls Primary and, when it succeeds, every secondary drawer
func (m MultiDrawer) Draw(target *dom.Node, cfg charts.Config) error {
	if err := m.Primary.Draw(target, cfg); err != nil {
		return err
	}
	for _, d := range m.Secondary {
		if err := d.Draw(target, cfg); err != nil && m.OnSecondaryError != nil {
			m.OnSecondaryError(target.ID(), err)
		}
	}
	return nil
}
