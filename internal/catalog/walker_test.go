package catalog

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/bobsbackgrounds/internal/doctree"
)

func elementsNamed(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func TestWalkGroup_LegacyStopsAtNextHeading(t *testing.T) {
	doc := parsePage(t, `
<h3>A</h3>
<ul id="a1"><li>x</li></ul>
<p>between lists</p>
<ul id="a2"><li>y</li></ul>
<h3>B</h3>
<ul id="b1"><li>z</li></ul>`)
	headings := elementsNamed(doc, "h3")

	got := WalkGroup(headings[0], SchemaLegacy)
	if len(got) != 2 {
		t.Fatalf("expected 2 lists for A, got %d", len(got))
	}
	for i, want := range []string{"a1", "a2"} {
		if id, _ := doctree.Attr(got[i], "id"); id != want {
			t.Errorf("list %d: expected %q, got %q", i, want, id)
		}
	}

	got = WalkGroup(headings[1], SchemaLegacy)
	if len(got) != 1 {
		t.Fatalf("expected 1 list for B, got %d", len(got))
	}
}

func TestWalkGroup_LegacyStopsAtSeasonHeading(t *testing.T) {
	doc := parsePage(t, `
<h3>A</h3>
<ul><li>x</li></ul>
<h2>Season 2</h2>
<ul><li>not A's</li></ul>`)
	h3 := elementsNamed(doc, "h3")[0]

	if got := WalkGroup(h3, SchemaLegacy); len(got) != 1 {
		t.Fatalf("expected 1 list, got %d", len(got))
	}
}

func TestWalkGroup_LegacyEmpty(t *testing.T) {
	doc := parsePage(t, `<h3>A</h3><h3>B</h3><ul><li>x</li></ul>`)
	h3 := elementsNamed(doc, "h3")[0]

	if got := WalkGroup(h3, SchemaLegacy); len(got) != 0 {
		t.Fatalf("expected no lists, got %d", len(got))
	}
}

func TestWalkGroup_ModernContinuationRows(t *testing.T) {
	doc := parsePage(t, `<table>
<tr id="r1"><td>Ep 1</td><td>(A)</td><td>n</td></tr>
<tr id="r2"><td>(B)</td><td>n</td></tr>
<tr id="r3"><td>(C)</td><td>n</td></tr>
<tr id="r4"><td>Ep 2</td><td colspan="2">n</td></tr>
<tr id="r5"><td>(D)</td><td>n</td></tr>
</table>`)
	rows := elementsNamed(doc, "tr")

	got := WalkGroup(rows[0], SchemaModern)
	if len(got) != 2 {
		t.Fatalf("expected 2 continuation rows, got %d", len(got))
	}
	for i, want := range []string{"r2", "r3"} {
		if id, _ := doctree.Attr(got[i], "id"); id != want {
			t.Errorf("row %d: expected %q, got %q", i, want, id)
		}
	}

	got = WalkGroup(rows[3], SchemaModern)
	if len(got) != 1 {
		t.Fatalf("expected 1 continuation row after colspan row, got %d", len(got))
	}
	if got := WalkGroup(rows[4], SchemaModern); len(got) != 0 {
		t.Errorf("expected no rows after the last row, got %d", len(got))
	}
}

func TestIsEpisodeStartRow(t *testing.T) {
	tests := []struct {
		name  string
		cells string
		want  bool
	}{
		{"three cells", `<td>a</td><td>b</td><td>c</td>`, true},
		{"row header plus three cells", `<th>1</th><td>a</td><td>b</td><td>c</td>`, true},
		{"two cells, second spans two", `<td>a</td><td colspan="2">b</td>`, true},
		{"two cells, spaced colspan", `<td>a</td><td colspan=" 2 ">b</td>`, true},
		{"two cells, first spans two", `<td colspan="2">a</td><td>b</td>`, false},
		{"two cells, colspan three", `<td>a</td><td colspan="3">b</td>`, false},
		{"two plain cells", `<td>a</td><td>b</td>`, false},
		{"four cells", `<td>a</td><td>b</td><td>c</td><td>d</td>`, false},
		{"header cells only", `<th>a</th><th>b</th><th>c</th>`, false},
		{"one cell", `<td>a</td>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEpisodeStartRow(row(t, tt.cells)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOwnedBy(t *testing.T) {
	doc := parsePage(t, `<h3>A</h3><ul id="1"></ul><h2>S</h2><ul id="2"></ul><h3>B</h3><ul id="3"></ul>`)
	h3 := elementsNamed(doc, "h3")
	lists := elementsNamed(doc, "ul")

	if !OwnedBy(lists[0], h3[0]) {
		t.Error("expected first list owned by A")
	}
	if OwnedBy(lists[1], h3[0]) {
		t.Error("expected list after season heading not owned by A")
	}
	if !OwnedBy(lists[2], h3[1]) {
		t.Error("expected third list owned by B")
	}
}
