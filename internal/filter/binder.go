package filter

import (
	"fmt"

	"herdboard/internal/dom"
	"herdboard/internal/logger"
	"herdboard/internal/models"
)

// Binder wires every filter form of a page to one entity payload
type Binder struct {
	labels Labels
	log    *logger.Logger
}

// NewBinder creates a binder with the default option labels
func NewBinder() *Binder {
	return &Binder{labels: DefaultLabels(), log: logger.Component("filter")}
}

// WithLabels returns a copy of the binder using labels
func (b *Binder) WithLabels(labels Labels) *Binder {
	c := *b
	c.labels = labels
	return &c
}

// WithLogger returns a copy of the binder reporting through l
func (b *Binder) WithLogger(l *logger.Logger) *Binder {
	c := *b
	c.log = l
	return &c
}

// Bind installs the cascade on every filter form under root and renders each once.
// Forms without both controls are skipped.
func (b *Binder) Bind(root *dom.Node, entities []models.FilterableEntity) []*Binding {
	var bindings []*Binding
	for _, form := range root.QueryAllAttr(AttrForm) {
		parent := firstSelect(form, AttrParent)
		dependent := firstSelect(form, AttrDependent)
		if parent == nil || dependent == nil {
			b.log.Debug("filter form skipped", logger.Fields{"has_parent": parent != nil, "has_dependent": dependent != nil})
			continue
		}

		binding := newBinding(form, parent, dependent, entities, b.labels)
		binding.listen()
		set := binding.Render()
		b.log.Debug("filter form bound", logger.Fields{"state": string(set.State), "options": len(set.Options)})
		bindings = append(bindings, binding)
	}
	return bindings
}

// BindJSON parses raw as an entity array and binds it.
// An unparseable payload binds nothing and leaves the native controls untouched.
func (b *Binder) BindJSON(root *dom.Node, raw []byte) ([]*Binding, error) {
	entities, err := models.ParseEntities(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter entities: %w", err)
	}
	return b.Bind(root, entities), nil
}

func firstSelect(form *dom.Node, marker string) *dom.Node {
	return form.Find(func(n *dom.Node) bool { return n.Tag() == "select" && n.HasAttr(marker) })
}
