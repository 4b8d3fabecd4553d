package dom

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Weights</title></head>
<body>
<script id="tracking-animals-data" type="application/json">[{"id": 1, "batch": "10", "label": "Cow-1"}]</script>
<form data-tracking-filter-form>
  <select name="batch" data-filter-batch>
    <option value="">All batches</option>
    <option value="10" selected>North</option>
  </select>
  <select name="animal" data-filter-animal data-selected="1"></select>
</form>
<canvas id="chart-by-batch"></canvas>
</body></html>`

func TestParseAndQuery(t *testing.T) {
	doc, err := ParseString(samplePage)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	data := doc.GetElementByID("tracking-animals-data")
	if data == nil {
		t.Fatal("Expected data element to be found")
	}
	if !strings.Contains(data.TextContent(), `"Cow-1"`) {
		t.Errorf("Unexpected data element text: %q", data.TextContent())
	}

	forms := doc.QueryAllAttr("data-tracking-filter-form")
	if len(forms) != 1 {
		t.Fatalf("Expected 1 filter form, got %d", len(forms))
	}

	batch := forms[0].QueryAttr("data-filter-batch")
	if batch == nil {
		t.Fatal("Expected batch select")
	}
	if batch.Value() != "10" {
		t.Errorf("Expected batch value '10', got '%s'", batch.Value())
	}

	animal := forms[0].QueryAttr("data-filter-animal")
	if selected, _ := animal.Attr("data-selected"); selected != "1" {
		t.Errorf("Expected data-selected '1', got '%s'", selected)
	}

	if doc.GetElementByID("missing") != nil {
		t.Error("Expected nil for a missing id")
	}
}

func TestSelectValueSemantics(t *testing.T) {
	sel := NewElement("select")
	if sel.Value() != "" {
		t.Errorf("Expected empty value for empty select, got '%s'", sel.Value())
	}

	sel.ReplaceOptions([]Option{{Value: "", Text: "All"}, {Value: "1", Text: "Cow-1"}, {Value: "2", Text: "Cow-2"}})
	if sel.Value() != "" {
		t.Errorf("Expected first option to be selected by default, got '%s'", sel.Value())
	}

	sel.SetValue("2")
	if sel.Value() != "2" {
		t.Errorf("Expected value '2', got '%s'", sel.Value())
	}

	sel.SetValue("99")
	if sel.Value() != "" {
		t.Errorf("Expected no selection after unknown value, got '%s'", sel.Value())
	}

	if !sel.HasOptionValue("1") || sel.HasOptionValue("99") {
		t.Error("HasOptionValue returned wrong answer")
	}

	opts := sel.Options()
	if len(opts) != 3 || opts[1].Text != "Cow-1" {
		t.Errorf("Unexpected options: %+v", opts)
	}
}

func TestChooseDispatchesChange(t *testing.T) {
	sel := NewElement("select")
	sel.ReplaceOptions([]Option{{Value: "a", Text: "A"}, {Value: "b", Text: "B"}})

	var seen []string
	sel.AddEventListener(EventChange, func(target *Node) {
		seen = append(seen, target.Value())
	})

	sel.Choose("b")
	sel.Choose("a")

	if len(seen) != 2 || seen[0] != "b" || seen[1] != "a" {
		t.Errorf("Unexpected change events: %v", seen)
	}
}

func TestDisabled(t *testing.T) {
	sel := NewElement("select")
	sel.SetDisabled(true)
	if !sel.Disabled() {
		t.Error("Expected select to be disabled")
	}
	sel.SetDisabled(false)
	if sel.Disabled() {
		t.Error("Expected select to be enabled")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := ParseString(samplePage)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	animal := doc.QueryAttr("data-filter-animal")
	animal.ReplaceOptions([]Option{{Value: "", Text: "All animals"}, {Value: "1", Text: "Cow-1"}})
	animal.SetValue("404")

	out, err := RenderString(doc)
	if err != nil {
		t.Fatalf("RenderString failed: %v", err)
	}

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("Expected doctype to survive, got %q", out[:20])
	}
	if !strings.Contains(out, `<option value="1">Cow-1</option>`) {
		t.Errorf("Expected rendered option, got %s", out)
	}
	if !strings.Contains(out, `data-selected="1"><option value="">All animals</option><option value="1">Cow-1</option></select>`) {
		t.Errorf("Expected options without a selection marker, got %s", out)
	}
	if animal.Value() != "" {
		t.Errorf("Expected no selection after unknown value, got %q", animal.Value())
	}
	if !strings.Contains(out, `"label": "Cow-1"`) {
		t.Error("Expected script content to be rendered verbatim")
	}
}

func TestInsertAfter(t *testing.T) {
	parent := NewElement("div")
	a := NewElement("a")
	c := NewElement("c")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := NewElement("b")
	parent.InsertAfter(b, a)

	var tags []string
	for _, child := range parent.Children() {
		tags = append(tags, child.Tag())
	}
	if strings.Join(tags, ",") != "a,b,c" {
		t.Errorf("Unexpected order: %v", tags)
	}
	if b.Parent() != parent {
		t.Error("Expected parent to be set")
	}
}

func TestMoveBetweenTrees(t *testing.T) {
	doc, err := ParseString(samplePage)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	fragment, err := ParseString(`<html><body><select id="moved"><option value="a">A</option></select></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	sel := fragment.GetElementByID("moved")
	var changes int
	sel.AddEventListener(EventChange, func(*Node) { changes++ })
	sel.SetValue("missing")

	body := doc.Find(func(n *Node) bool { return n.Tag() == "body" })
	body.AppendChild(sel)

	if fragment.GetElementByID("moved") != nil {
		t.Error("Expected element to leave its old document")
	}
	found := doc.GetElementByID("moved")
	if found != sel {
		t.Fatal("Expected the same handle after the move")
	}
	if found.Value() != "" {
		t.Errorf("Expected no selection to survive the move, got %q", found.Value())
	}
	found.Choose("a")
	if changes != 1 || found.Value() != "a" {
		t.Errorf("Expected listener to survive the move, changes=%d value=%q", changes, found.Value())
	}
	if found.Parent() != body {
		t.Error("Expected body as parent")
	}
}

func TestRemoveAndReinsert(t *testing.T) {
	doc, err := ParseString(samplePage)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	canvas := doc.GetElementByID("chart-by-batch")
	parent := canvas.Parent()

	script := NewElement("script", "data-chart-for", "chart-by-batch")
	script.AppendChild(NewText("init();"))
	parent.InsertAfter(script, canvas)
	parent.InsertAfter(script, canvas)

	out, _ := RenderString(doc)
	if strings.Count(out, `<script data-chart-for="chart-by-batch">init();</script>`) != 1 {
		t.Errorf("Expected one script after the canvas, got %s", out)
	}
	if !strings.Contains(out, `<canvas id="chart-by-batch"></canvas><script data-chart-for`) {
		t.Errorf("Expected script right after canvas, got %s", out)
	}

	script.Remove()
	if script.Parent() != nil {
		t.Error("Expected removed node to be detached")
	}
	out, _ = RenderString(doc)
	if strings.Contains(out, "init();") {
		t.Errorf("Expected script gone, got %s", out)
	}
}
