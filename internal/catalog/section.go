package catalog

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/bobsbackgrounds/internal/doctree"
)

var (
	isTable        = doctree.Kind(atom.Table)
	isTableSection = doctree.Kind(atom.Thead, atom.Tbody, atom.Tfoot)
)

// ExtractSeason builds the Season for one "Season N" heading. Missing
// episode headings or a missing table give a Season with no episodes.
func (x *Extractor) ExtractSeason(marker *html.Node) Season {
	number, _ := SeasonNumber(marker)
	variant := VariantFor(number)
	log := x.log.With("season", number, "schema", variant.String())

	season := Season{Number: number, Episodes: []Episode{}}
	switch variant {
	case SchemaLegacy:
		season.Episodes = x.legacyEpisodes(marker, log)
	case SchemaModern:
		season.Episodes = x.modernEpisodes(marker, log)
	}
	if len(season.Episodes) == 0 {
		log.Debug("season has no episodes")
	}
	return season
}

// legacyEpisodes reads the h3 headings between this season heading and the
// next one, collecting each heading's burger lists.
func (x *Extractor) legacyEpisodes(marker *html.Node, log *slog.Logger) []Episode {
	episodes := []Episode{}
	for s := range doctree.FollowingSiblings(marker) {
		if isSeasonHeading(s) {
			break
		}
		if !isEpisodeHeading(s) {
			continue
		}
		ep := Episode{Number: len(episodes) + 1, Name: headingText(s), Burgers: []Burger{}}
		for _, list := range WalkGroup(s, SchemaLegacy) {
			for _, li := range doctree.ChildrenOf(list, isListItem) {
				ep.Burgers = x.appendLeaf(ep.Burgers, li, SchemaLegacy, ep.Number, log)
			}
		}
		episodes = append(episodes, ep)
	}
	return episodes
}

// modernEpisodes reads the season table. Rows ahead of the first
// episode-starting row (the header) belong to no episode and are ignored.
func (x *Extractor) modernEpisodes(marker *html.Node, log *slog.Logger) []Episode {
	table := seasonTable(marker)
	if table == nil {
		log.Debug("no table after season heading")
		return []Episode{}
	}

	episodes := []Episode{}
	for _, tr := range tableRows(table) {
		if !IsEpisodeStartRow(tr) {
			continue
		}
		cells := doctree.ChildrenOf(tr, isCell)
		ep := Episode{
			Number:  len(episodes) + 1,
			Name:    strings.Trim(doctree.Text(cells[0]), cellCutset),
			Burgers: []Burger{},
		}
		ep.Burgers = x.appendLeaf(ep.Burgers, tr, SchemaModern, ep.Number, log)
		for _, cont := range WalkGroup(tr, SchemaModern) {
			ep.Burgers = x.appendLeaf(ep.Burgers, cont, SchemaModern, ep.Number, log)
		}
		episodes = append(episodes, ep)
	}
	return episodes
}

func (x *Extractor) appendLeaf(burgers []Burger, n *html.Node, v SchemaVariant, episode int, log *slog.Logger) []Burger {
	b, err := ParseLeaf(n, v)
	if err != nil {
		log.Debug("skipping leaf", "episode", episode, "reason", err)
		return burgers
	}
	return append(burgers, b)
}

// seasonTable returns the first table after marker, stopping at the next
// season heading.
func seasonTable(marker *html.Node) *html.Node {
	for s := range doctree.FollowingSiblings(marker) {
		if isSeasonHeading(s) {
			return nil
		}
		if isTable(s) {
			return s
		}
	}
	return nil
}

// tableRows returns the rows of table in document order, looking through
// thead, tbody and tfoot.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := range doctree.Children(table) {
		switch {
		case isRow(c):
			rows = append(rows, c)
		case isTableSection(c):
			rows = append(rows, doctree.ChildrenOf(c, isRow)...)
		}
	}
	return rows
}
