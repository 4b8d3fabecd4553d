// Package filter drives the batch → animal cascading selects of the tracking forms.
package filter

import "herdboard/internal/models"

// Labels are the texts of the two synthetic options
type Labels struct {
	Placeholder string `json:"placeholder"`
	Sentinel    string `json:"sentinel"`
}

// DefaultLabels returns the texts shown by the tracking forms
func DefaultLabels() Labels {
	return Labels{
		Placeholder: "Select a batch first",
		Sentinel:    "All animals",
	}
}

// State is the state of one form's dependent control
type State string

const (
	NoParentSelected State = "no-parent-selected"
	ParentSelected   State = "parent-selected"
)

// StateFor derives the state from the parent control's value
func StateFor(parent string) State {
	if parent == "" {
		return NoParentSelected
	}
	return ParentSelected
}

// Option is one rendered option of the dependent control
type Option struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled,omitempty"`
}

// OptionSet is the full rendering of the dependent control for one parent value
type OptionSet struct {
	State    State    `json:"state"`
	Options  []Option `json:"options"`
	Selected string   `json:"selected"`
	Disabled bool     `json:"disabled"`
}

// Matches returns the options after the sentinel, i.e. the entities of the selected group
func (s OptionSet) Matches() []Option {
	if s.State != ParentSelected || len(s.Options) == 0 {
		return nil
	}
	return s.Options[1:]
}

// Options computes the dependent control for parent.
// Without a parent the control holds only a disabled placeholder; otherwise the sentinel is followed
// by the entities of that group in payload order, and persisted is selected when it is still offered.
func Options(entities []models.FilterableEntity, parent, persisted string, labels Labels) OptionSet {
	if StateFor(parent) == NoParentSelected {
		return OptionSet{
			State:    NoParentSelected,
			Options:  []Option{{Value: "", Text: labels.Placeholder, Disabled: true}},
			Selected: "",
			Disabled: true,
		}
	}

	set := OptionSet{
		State:   ParentSelected,
		Options: []Option{{Value: "", Text: labels.Sentinel}},
	}
	for _, e := range entities {
		if e.GroupKey.String() != parent {
			continue
		}
		value := e.ID.String()
		set.Options = append(set.Options, Option{Value: value, Text: e.Label.String()})
		if persisted != "" && value == persisted && set.Selected == "" {
			set.Selected = value
		}
	}
	return set
}
