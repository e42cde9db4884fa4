package derive

// ForwardRelation marks a field that points from one model toward another —
// the owning side of a structural edge, inferred during buildModel from any
// field (or slice of fields) whose element type is itself a registered
// struct. Many is set for a slice-typed field (one model pointing at many of
// another); BelongsTo is set when the field carries `tdb:"belongs_to"`,
// meaning this model's own identity is scoped under Target rather than
// independent of it.
type ForwardRelation struct {
	Field    string
	WireName string
	Target   *Model
	Many     bool
	BelongsTo bool
}

// ReverseRelation is the inverse of a ForwardRelation: the edge as seen from
// the target's side, reached by following the forward field backward.
type ReverseRelation struct {
	Field  string
	Source *Model
}

// ReverseRelationsOf scans every model registered so far for a
// ForwardRelation whose Target is m, returning each as a ReverseRelation.
// Unlike Forward (computed once, at buildModel time), this always reflects
// the current registry, since a relation's target is typically registered
// before a model that points at it discovers the relation, but nothing
// prevents the reverse.
func ReverseRelationsOf(m *Model) []ReverseRelation {
	var out []ReverseRelation
	for _, other := range allModels() {
		for _, fr := range other.Forward {
			if fr.Target == m {
				out = append(out, ReverseRelation{Field: fr.Field, Source: other})
			}
		}
	}
	return out
}

// BelongsToField returns the field name of m's first belongs-to relation
// and true, or "" and false if m has none.
func (m *Model) BelongsToField() (string, bool) {
	for _, fr := range m.Forward {
		if fr.BelongsTo {
			return fr.Field, true
		}
	}
	return "", false
}

// LookupByClassID returns the registered model with the given class id, or
// nil if none matches. Used by the query package's relation path-DSL to
// resolve a bare model name written in a chain expression.
func LookupByClassID(id string) *Model {
	for _, m := range allModels() {
		if m.ClassID == id {
			return m
		}
	}
	return nil
}
