package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders the catalog as a Markdown document with one table per
// season.
func Markdown(seasons []catalog.Season) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Burger of the Day\n")
	for _, s := range seasons {
		fmt.Fprintf(&buf, "\n## Season %d\n\n", s.Number)
		buf.WriteString("| Episode | Title | Burger | Explanation | Notes |\n")
		buf.WriteString("| ---: | --- | --- | --- | --- |\n")
		for _, ep := range s.Episodes {
			if len(ep.Burgers) == 0 {
				fmt.Fprintf(&buf, "| %d | %s | | | |\n", ep.Number, cell(ep.Name))
				continue
			}
			for _, b := range ep.Burgers {
				fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n", ep.Number, cell(ep.Name),
					cell(b.Name), cell(value(b.Explanation)), cell(value(b.AdditionalInformation)))
			}
		}
	}
	return buf.Bytes()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func cell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}

// HTML writes the Markdown report converted to an HTML fragment.
func HTML(w io.Writer, seasons []catalog.Season) error {
	if err := md.Convert(Markdown(seasons), w); err != nil {
		return fmt.Errorf("report: convert markdown: %w", err)
	}
	return nil
}
