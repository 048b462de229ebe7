package catalog

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/bobsbackgrounds/internal/doctree"
)

const (
	// Separates name and explanation in a legacy list item.
	legacySeparator = " - "
	// Joins the nested notes list of a legacy item.
	notesSeparator = ". "
	// Characters trimmed from modern cell text.
	cellCutset = "\" \n"
	// Marks a missing backgrounds board entry in a modern row.
	noneSentinel = "None"
)

var (
	isNestedList = doctree.Kind(atom.Ul)
	isListItem   = doctree.Kind(atom.Li)
)

// ParseLeaf turns one list item (legacy) or table row (modern) into a
// Burger. A non-nil error says why the leaf has no burger; callers skip it.
func ParseLeaf(n *html.Node, v SchemaVariant) (Burger, error) {
	if v == SchemaModern {
		return parseRow(n)
	}
	return parseListItem(n)
}

// parseListItem reads "Name - Explanation" with an optional nested list of
// notes. An item that opens with a nested list is an annotation.
//
// The annotation rule mirrors how the page is written today; it is not a
// documented convention of the wiki.
func parseListItem(li *html.Node) (Burger, error) {
	if isNestedList(doctree.FirstContentChild(li)) {
		return Burger{}, ErrAnnotation
	}

	text := strings.TrimSpace(doctree.OwnText(li, isNestedList))
	name, explanation, found := strings.Cut(text, legacySeparator)
	name = strings.TrimSpace(name)
	if name == "" {
		return Burger{}, ErrNoName
	}

	b := Burger{Name: name}
	if found {
		b.Explanation = ptr(strings.TrimSpace(explanation))
	}
	if notes := doctree.ChildrenOf(li, isNestedList); len(notes) > 0 {
		b.AdditionalInformation = joinNotes(notes[0])
	}
	return b, nil
}

// joinNotes turns the items of a notes list into "a. b. c.". An empty list
// gives nil, never "".
func joinNotes(list *html.Node) *string {
	var parts []string
	for _, item := range doctree.ChildrenOf(list, isListItem) {
		t := strings.Trim(doctree.Text(item), " \t\n.")
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return ptr(strings.Join(parts, notesSeparator) + ".")
}

// parseRow reads the last two cells of a row: "(Name) (Explanation)" and
// the backgrounds board notes.
//
// The "None" notes cell is how the page marks episodes with no board entry;
// those rows are dropped rather than stored with empty notes.
func parseRow(tr *html.Node) (Burger, error) {
	cells := doctree.ChildrenOf(tr, isCell)
	if len(cells) < 2 {
		return Burger{}, ErrTooFewCells
	}

	notes := strings.Trim(doctree.Text(cells[len(cells)-1]), cellCutset)
	if notes == noneSentinel {
		return Burger{}, ErrNoneSentinel
	}

	segs := parenSegments(doctree.Text(cells[len(cells)-2]))
	if len(segs) == 0 {
		return Burger{}, ErrNoName
	}

	b := Burger{Name: segs[0], AdditionalInformation: ptr(notes)}
	if len(segs) > 1 {
		b.Explanation = ptr(segs[1])
	}
	return b, nil
}

// parenSegments splits s at every parenthesis and returns the trimmed,
// non-empty pieces.
func parenSegments(s string) []string {
	var segs []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == '(' || r == ')' }) {
		if f = strings.Trim(f, cellCutset); f != "" {
			segs = append(segs, f)
		}
	}
	return segs
}

func ptr(s string) *string { return &s }
