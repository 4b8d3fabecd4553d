package dom

// Option describes one <option> of a select control
type Option struct {
	Value    string
	Text     string
	Disabled bool
}

// EventChange is dispatched on a select when the user picks a different option
const EventChange = "change"

// Options returns the options of a select element in document order
func (n *Node) Options() []Option {
	var out []Option
	for _, o := range n.optionNodes() {
		out = append(out, Option{Value: optionValue(o), Text: o.TextContent(), Disabled: o.HasAttr("disabled")})
	}
	return out
}

// ReplaceOptions discards every option of a select and appends the given ones; nothing is selected afterwards
func (n *Node) ReplaceOptions(options []Option) {
	n.RemoveChildren()
	delete(n.tree.noSelection, n.h)
	for _, opt := range options {
		o := NewElement("option", "value", opt.Value)
		if opt.Disabled {
			o.SetAttr("disabled", "")
		}
		o.SetTextContent(opt.Text)
		n.AppendChild(o)
	}
}

// Value returns the value of the selected option.
// With no explicit selection the first option counts as selected, as in a browser.
func (n *Node) Value() string {
	opts := n.optionNodes()
	for _, o := range opts {
		if o.HasAttr("selected") {
			return optionValue(o)
		}
	}
	if len(opts) > 0 && !n.noSelection() {
		return optionValue(opts[0])
	}
	return ""
}

// SetValue selects the first option whose value equals v.
// If none matches the control ends up with no selection and Value returns "".
func (n *Node) SetValue(v string) {
	matched := false
	for _, o := range n.optionNodes() {
		if !matched && optionValue(o) == v {
			o.SetAttr("selected", "")
			matched = true
			continue
		}
		o.RemoveAttr("selected")
	}
	if matched {
		delete(n.tree.noSelection, n.h)
	} else {
		n.tree.noSelection[n.h] = true
	}
}

// HasOptionValue reports whether some option carries value v
func (n *Node) HasOptionValue(v string) bool {
	for _, o := range n.optionNodes() {
		if optionValue(o) == v {
			return true
		}
	}
	return false
}

// Disabled reports whether the control is disabled
func (n *Node) Disabled() bool {
	return n.HasAttr("disabled")
}

// SetDisabled enables or disables the control
func (n *Node) SetDisabled(disabled bool) {
	if disabled {
		n.SetAttr("disabled", "")
	} else {
		n.RemoveAttr("disabled")
	}
}

// Choose simulates a user picking value v: the value is set and a change event is dispatched
func (n *Node) Choose(v string) {
	n.SetValue(v)
	n.Dispatch(EventChange)
}

// noSelection reports whether the value was last set to something absent from the options
func (n *Node) noSelection() bool {
	return n.tree.noSelection[n.h]
}

func (n *Node) optionNodes() []*Node {
	return n.FindAll(func(d *Node) bool { return d.Tag() == "option" })
}

func optionValue(o *Node) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return o.TextContent()
}
