// Package catalog extracts the Burger of the Day catalog from the parsed
// fandom wiki page. The page switches layout at season 9: earlier seasons
// list burgers under per-episode headings, later seasons use one table per
// season. Extraction is a read-only walk of an already parsed tree.
package catalog

import (
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/bobsbackgrounds/internal/doctree"
)

// ContentClass is the class of the div holding the article body.
const ContentClass = "mw-parser-output"

// Season is one "Season N" section of the page.
type Season struct {
	Number   int       `json:"number"`
	Episodes []Episode `json:"episodes"`
}

// Episode numbers are assigned in extraction order starting at 1.
type Episode struct {
	Number  int      `json:"number"`
	Name    string   `json:"name"`
	Burgers []Burger `json:"burgers"`
}

// Burger is a single burger board entry. Nil optional fields are absent in
// the source, which is not the same as present-but-empty.
type Burger struct {
	Name                  string  `json:"name"`
	Explanation           *string `json:"explanation,omitempty"`
	AdditionalInformation *string `json:"additional_information,omitempty"`
}

var (
	seasonMarker = regexp.MustCompile(`^Season (\d+)`)
	integerToken = regexp.MustCompile(`^\d+$`)
)

var isSeasonHeading = doctree.Kind(atom.H2)

// Extractor walks documents. The zero value is not usable; use NewExtractor.
type Extractor struct {
	log *slog.Logger
}

// NewExtractor returns an Extractor that reports skipped leaves to log at
// debug level. A nil log discards.
func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{log: log}
}

var defaultExtractor = NewExtractor(nil)

// Extract returns the seasons of the document rooted at root, in document
// order.
func Extract(root *html.Node) ([]Season, error) {
	return defaultExtractor.Extract(root)
}

// Extract returns one Season per "Season N" heading found directly under the
// content container, in document order. Only a missing container is an error.
func (x *Extractor) Extract(root *html.Node) ([]Season, error) {
	content := doctree.Find(root, func(n *html.Node) bool {
		return doctree.Is(n, atom.Div) && doctree.HasClass(n, ContentClass)
	})
	if content == nil {
		return nil, &DocumentStructureError{Container: "div." + ContentClass}
	}

	seasons := []Season{}
	for _, h := range doctree.ChildrenOf(content, isSeasonHeading) {
		if _, ok := SeasonNumber(h); !ok {
			continue
		}
		seasons = append(seasons, x.ExtractSeason(h))
	}
	return seasons, nil
}

// SeasonNumber reads the ordinal from a "Season N" heading. The ordinal is
// the trailing integer token of the heading text, or the number right after
// "Season" when the heading ends in something else. An ordinal too large for
// an int saturates so that every matching heading still yields a season.
func SeasonNumber(marker *html.Node) (int, bool) {
	text := headingText(marker)
	m := seasonMarker.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	digits := m[1]
	fields := strings.Fields(text)
	if last := fields[len(fields)-1]; integerToken.MatchString(last) {
		digits = last
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = math.MaxInt
	}
	return n, true
}

// headingText prefers the MediaWiki headline span so "[edit]" links are left out.
func headingText(h *html.Node) string {
	span := doctree.Find(h, func(n *html.Node) bool {
		return doctree.Is(n, atom.Span) && doctree.HasClass(n, "mw-headline")
	})
	if span != nil {
		return strings.TrimSpace(doctree.Text(span))
	}
	return strings.TrimSpace(doctree.Text(h))
}
