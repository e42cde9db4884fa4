package ast

import "encoding/json"

// Data matches or asserts an edge whose object is a literal value, as
// opposed to Triple which covers both node and data objects generically and
// Link which is restricted to node objects. Mirrors the source's distinct
// Data/Link/Triple query nodes rather than collapsing them into one.
type Data struct {
	Subject, Predicate, Object Value
	Graph                      string
}

func (Data) isQuery()          {}
func (Data) QueryType() string { return "Data" }
func (d Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
		Graph     string `json:"graph,omitempty"`
	}{"Data", d.Subject, d.Predicate, d.Object, d.Graph})
}

// Link matches or asserts an edge whose object is a node reference.
type Link struct {
	Subject, Predicate, Object Value
	Graph                      string
}

func (Link) isQuery()          {}
func (Link) QueryType() string { return "Link" }
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
		Graph     string `json:"graph,omitempty"`
	}{"Link", l.Subject, l.Predicate, l.Object, l.Graph})
}

// AddData asserts a data-valued edge into the instance graph.
type AddData Data

func (AddData) isQuery()          {}
func (AddData) QueryType() string { return "AddData" }
func (d AddData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddData", d.Subject, d.Predicate, d.Object})
}

// AddLink asserts a node-valued edge into the instance graph.
type AddLink Link

func (AddLink) isQuery()          {}
func (AddLink) QueryType() string { return "AddLink" }
func (l AddLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddLink", l.Subject, l.Predicate, l.Object})
}

// DeleteLink retracts a node-valued edge from the instance graph.
type DeleteLink Link

func (DeleteLink) isQuery()          {}
func (DeleteLink) QueryType() string { return "DeleteLink" }
func (l DeleteLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"DeleteLink", l.Subject, l.Predicate, l.Object})
}

// AddedTriple succeeds when the (subject, predicate, object) edge was added
// by the commit currently in scope, quantifying over a changeset rather than
// the current instance graph.
type AddedTriple Triple

func (AddedTriple) isQuery()          {}
func (AddedTriple) QueryType() string { return "AddedTriple" }
func (t AddedTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddedTriple", t.Subject, t.Predicate, t.Object})
}

// AddedData is AddedTriple restricted to data-valued edges.
type AddedData Data

func (AddedData) isQuery()          {}
func (AddedData) QueryType() string { return "AddedData" }
func (d AddedData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddedData", d.Subject, d.Predicate, d.Object})
}

// AddedLink is AddedTriple restricted to node-valued edges.
type AddedLink Link

func (AddedLink) isQuery()          {}
func (AddedLink) QueryType() string { return "AddedLink" }
func (l AddedLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddedLink", l.Subject, l.Predicate, l.Object})
}

// DeletedTriple succeeds when the edge was removed by the commit in scope.
type DeletedTriple Triple

func (DeletedTriple) isQuery()          {}
func (DeletedTriple) QueryType() string { return "DeletedTriple" }
func (t DeletedTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"DeletedTriple", t.Subject, t.Predicate, t.Object})
}

// DeletedLink is DeletedTriple restricted to node-valued edges.
type DeletedLink Link

func (DeletedLink) isQuery()          {}
func (DeletedLink) QueryType() string { return "DeletedLink" }
func (l DeletedLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"DeletedLink", l.Subject, l.Predicate, l.Object})
}
