package catalog

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/bobsbackgrounds/internal/doctree"
)

var (
	isEpisodeHeading = doctree.Kind(atom.H3)
	isListGroup      = doctree.Kind(atom.Ul)
	isRow            = doctree.Kind(atom.Tr)
	isCell           = doctree.Kind(atom.Td)

	// A list belongs to the nearest heading above it at episode level or higher.
	isOwningHeading = doctree.Kind(atom.H2, atom.H3)
)

// WalkGroup returns the siblings after start that belong to the same group.
//
// Legacy: start is an episode heading; the result is the run of ul lists
// owned by it. Modern: start is an episode-starting table row; the result is
// its continuation rows, not including start itself.
func WalkGroup(start *html.Node, v SchemaVariant) []*html.Node {
	var group []*html.Node
	switch v {
	case SchemaLegacy:
		for s := range doctree.FollowingSiblings(start) {
			if !isListGroup(s) {
				continue
			}
			if !OwnedBy(s, start) {
				break
			}
			group = append(group, s)
		}
	case SchemaModern:
		for s := range doctree.FollowingSiblings(start) {
			if !isRow(s) {
				continue
			}
			if IsEpisodeStartRow(s) {
				break
			}
			group = append(group, s)
		}
	}
	return group
}

// OwnedBy reports whether heading is the nearest preceding heading of list.
// A season heading in between means the list belongs elsewhere.
func OwnedBy(list, heading *html.Node) bool {
	return doctree.NearestPrecedingSibling(list, isOwningHeading) == heading
}

// IsEpisodeStartRow classifies a modern-layout row. A row opens a new episode
// when it has three data cells, or two where the second spans two columns
// (the episode cell is covered by a rowspan from above). Anything else
// continues the previous episode.
func IsEpisodeStartRow(tr *html.Node) bool {
	cells := doctree.ChildrenOf(tr, isCell)
	switch len(cells) {
	case 3:
		return true
	case 2:
		span, _ := doctree.Attr(cells[1], "colspan")
		return strings.TrimSpace(span) == "2"
	}
	return false
}
