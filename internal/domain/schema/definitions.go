package schema

// ColumnKind is the storage-level type of a synthesized column
type ColumnKind string

const (
	KindString        ColumnKind = "string"
	KindText          ColumnKind = "text"
	KindDate          ColumnKind = "date"
	KindReference     ColumnKind = "reference"
	KindReferenceList ColumnKind = "reference_list"
	KindStringList    ColumnKind = "string_list"
	KindGroup         ColumnKind = "group"
)

// Column is one synthesized storage column, keyed by the field's slug
type Column struct {
	Slug     string     `json:"slug"`
	Kind     ColumnKind `json:"kind"`
	Required bool       `json:"required,omitempty"`
	// Reference carries the referenced collection for reference kinds: the
	// target table slug for relationships and groups, or a system table name
	// for files, reactions and evaluations.
	Reference string `json:"reference,omitempty"`
	// Group carries the embedded sub-document shape for KindGroup columns
	Group *Definition `json:"group,omitempty"`
}

// Definition is the synthesized storage schema of one table: an ordered column
// list derived from the table's non-trashed fields. It is a cached projection
// of the field list, never authoritative on its own.
type Definition struct {
	Columns []Column `json:"columns"`
}

// Column returns the column with the given slug, or nil
func (d *Definition) Column(slug string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Slug == slug {
			return &d.Columns[i]
		}
	}
	return nil
}

// Slugs returns the column slugs in field order
func (d *Definition) Slugs() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Slug
	}
	return out
}
