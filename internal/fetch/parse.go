package fetch

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Parse reads markup into an html tree. The returned tree is never mutated
// by the extractor and may be shared between readers.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
