package ast

import "encoding/json"

// Immediately forces Query's side effects (inserts/updates/deletes) to take
// place right away rather than being deferred to end-of-solution, trading
// backtracking safety for throughput.
type Immediately struct {
	Query Query
}

func (Immediately) isQuery()          {}
func (Immediately) QueryType() string { return "Immediately" }
func (i Immediately) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
	}{"Immediately", i.Query})
}

// Pin prevents the evaluator from reordering Query relative to its siblings.
type Pin struct {
	Query Query
}

func (Pin) isQuery()          {}
func (Pin) QueryType() string { return "Pin" }
func (p Pin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
	}{"Pin", p.Query})
}

// FromGraph switches the default read graph ("schema", "instance", or "*")
// for Query. Named FromGraph rather than From to avoid shadowing any Go
// builtin or stdlib identifier.
type FromGraph struct {
	Graph string
	Query Query
}

func (FromGraph) isQuery()          {}
func (FromGraph) QueryType() string { return "From" }
func (f FromGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Graph string `json:"graph"`
		Query Query  `json:"query"`
	}{"From", f.Graph, f.Query})
}

// IntoGraph switches the default write graph ("schema" or "instance") for Query.
type IntoGraph struct {
	Graph string
	Query Query
}

func (IntoGraph) isQuery()          {}
func (IntoGraph) QueryType() string { return "Into" }
func (i IntoGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Graph string `json:"graph"`
		Query Query  `json:"query"`
	}{"Into", i.Graph, i.Query})
}
