package catalog

import (
	"errors"
	"fmt"
)

// DocumentStructureError means the page is missing the container that holds
// the seasons. It is the only error Extract returns.
type DocumentStructureError struct {
	Container string
}

func (e *DocumentStructureError) Error() string {
	return fmt.Sprintf("document structure: missing content container %s", e.Container)
}

// Reasons a leaf yields no burger. The section extractor drops the leaf and
// carries on.
var (
	ErrAnnotation   = errors.New("leaf is an annotation, not a burger")
	ErrNoneSentinel = errors.New("backgrounds board entry is None")
	ErrTooFewCells  = errors.New("row has fewer than two cells")
	ErrNoName       = errors.New("no burger name")
)
