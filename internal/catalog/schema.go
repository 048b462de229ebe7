package catalog

// SchemaVariant is the page layout in effect for a season.
type SchemaVariant int

const (
	// SchemaLegacy: an h3 per episode followed by ul lists of burgers.
	SchemaLegacy SchemaVariant = iota
	// SchemaModern: one table per season, a row group per episode.
	SchemaModern
)

// ModernFromSeason is the first season laid out as a table.
const ModernFromSeason = 9

// VariantFor selects the layout from the season ordinal alone.
func VariantFor(season int) SchemaVariant {
	if season < ModernFromSeason {
		return SchemaLegacy
	}
	return SchemaModern
}

func (v SchemaVariant) String() string {
	switch v {
	case SchemaLegacy:
		return "legacy"
	case SchemaModern:
		return "modern"
	}
	return "unknown"
}
