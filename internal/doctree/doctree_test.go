package doctree

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestOwnText_SkipsSubtrees(t *testing.T) {
	doc := parse(t, `<ul><li>Name <b>bold</b><ul><li>nested</li></ul> tail</li></ul>`)
	li := Find(doc, Kind(atom.Li))

	if got := Text(li); got != "Name boldnested tail" {
		t.Errorf("Text: got %q", got)
	}
	if got := OwnText(li, Kind(atom.Ul)); got != "Name bold tail" {
		t.Errorf("OwnText: got %q", got)
	}
}

func TestAttrAndHasClass(t *testing.T) {
	doc := parse(t, `<div class="a mw-parser-output  b" data-x="1"></div>`)
	div := Find(doc, Kind(atom.Div))

	if v, ok := Attr(div, "data-x"); !ok || v != "1" {
		t.Errorf("Attr data-x: got (%q, %v)", v, ok)
	}
	if _, ok := Attr(div, "missing"); ok {
		t.Error("expected missing attribute to be absent")
	}
	if !HasClass(div, "mw-parser-output") {
		t.Error("expected class match")
	}
	if HasClass(div, "mw-parser") {
		t.Error("expected no partial class match")
	}
}

func TestSiblingNavigation(t *testing.T) {
	doc := parse(t, `<div><h2>s</h2> text <h3>a</h3><p>p</p><ul>l</ul></div>`)
	div := Find(doc, Kind(atom.Div))
	ul := Find(doc, Kind(atom.Ul))
	h2 := Find(doc, Kind(atom.H2))

	var kinds []string
	for s := range FollowingSiblings(h2) {
		kinds = append(kinds, s.Data)
	}
	if strings.Join(kinds, ",") != "h3,p,ul" {
		t.Errorf("FollowingSiblings: got %v", kinds)
	}

	if got := NearestPrecedingSibling(ul, Kind(atom.H2, atom.H3)); got == nil || got.Data != "h3" {
		t.Errorf("NearestPrecedingSibling: got %v", got)
	}
	if got := NearestPrecedingSibling(h2, Kind(atom.H3)); got != nil {
		t.Errorf("expected nil before first sibling, got %v", got.Data)
	}
	if n := len(ChildrenOf(div, Kind(atom.H2, atom.H3, atom.P, atom.Ul))); n != 4 {
		t.Errorf("ChildrenOf: expected 4, got %d", n)
	}
}

func TestFirstContentChild(t *testing.T) {
	doc := parse(t, "<ul><li>\n   <ul><li>x</li></ul></li><li> t <b>b</b></li></ul>")
	items := ChildrenOf(Find(doc, Kind(atom.Ul)), Kind(atom.Li))

	if c := FirstContentChild(items[0]); !Is(c, atom.Ul) {
		t.Errorf("expected nested ul to be first content, got %v", c)
	}
	if c := FirstContentChild(items[1]); c == nil || c.Type != html.TextNode {
		t.Errorf("expected text to be first content, got %v", c)
	}
}
