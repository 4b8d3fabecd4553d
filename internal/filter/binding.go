package filter

import (
	"herdboard/internal/dom"
	"herdboard/internal/models"
)

// Form markers
const (
	AttrForm      = "data-tracking-filter-form"
	AttrParent    = "data-filter-batch"
	AttrDependent = "data-filter-animal"
	AttrSelected  = "data-selected"
)

// Binding is the runtime state of one filter form.
// persisted is set only by a dependent change and cleared by every parent change.
type Binding struct {
	Form      *dom.Node
	Parent    *dom.Node
	Dependent *dom.Node

	entities  []models.FilterableEntity
	labels    Labels
	persisted string
}

func newBinding(form, parent, dependent *dom.Node, entities []models.FilterableEntity, labels Labels) *Binding {
	seed, _ := dependent.Attr(AttrSelected)
	return &Binding{
		Form:      form,
		Parent:    parent,
		Dependent: dependent,
		entities:  entities,
		labels:    labels,
		persisted: seed,
	}
}

// Persisted returns the remembered dependent value
func (b *Binding) Persisted() string {
	return b.persisted
}

// State returns the state derived from the parent control's current value
func (b *Binding) State() State {
	return StateFor(b.Parent.Value())
}

// Render replaces the dependent options for the current parent value
func (b *Binding) Render() OptionSet {
	set := Options(b.entities, b.Parent.Value(), b.persisted, b.labels)

	opts := make([]dom.Option, 0, len(set.Options))
	for _, o := range set.Options {
		opts = append(opts, dom.Option{Value: o.Value, Text: o.Text, Disabled: o.Disabled})
	}
	b.Dependent.ReplaceOptions(opts)
	b.Dependent.SetDisabled(set.Disabled)
	b.Dependent.SetValue(set.Selected)
	return set
}

func (b *Binding) onParentChange(*dom.Node) {
	b.persisted = ""
	b.Render()
}

func (b *Binding) onDependentChange(target *dom.Node) {
	b.persisted = target.Value()
}

func (b *Binding) listen() {
	b.Parent.AddEventListener(dom.EventChange, b.onParentChange)
	b.Dependent.AddEventListener(dom.EventChange, b.onDependentChange)
}
