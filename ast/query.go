package ast

import (
	"encoding/json"
	"fmt"
)

// Query is the sum type over every GQL query node. Each concrete node
// marshals itself with an explicit "@type" discriminant, mirroring the
// @type-switch JSON-LD decoding idiom the teacher uses for its own tagged
// union responses (ParseGraphDBAction and friends).
type Query interface {
	isQuery()
	QueryType() string
	MarshalJSON() ([]byte, error)
}

type baseQuery struct {
	Type string `json:"@type"`
}

func (baseQuery) isQuery() {}

// --- Logical combinators ---

// And runs a conjunction of sub-queries, left to right.
type And struct {
	Queries []Query `json:"and"`
}

func (And) isQuery()             {}
func (And) QueryType() string    { return "And" }
func (a And) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string  `json:"@type"`
		Queries []Query `json:"and"`
	}{"And", a.Queries})
}

// Or runs each sub-query, unioning their solutions.
type Or struct {
	Queries []Query `json:"or"`
}

func (Or) isQuery()          {}
func (Or) QueryType() string { return "Or" }
func (o Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string  `json:"@type"`
		Queries []Query `json:"or"`
	}{"Or", o.Queries})
}

// Not negates a sub-query; it must be fully bound, never introduces bindings.
type Not struct {
	Query Query `json:"query"`
}

func (Not) isQuery()          {}
func (Not) QueryType() string { return "Not" }
func (n Not) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
	}{"Not", n.Query})
}

// Once returns at most one solution from a sub-query.
type Once struct {
	Query Query `json:"query"`
}

func (Once) isQuery()          {}
func (Once) QueryType() string { return "Once" }
func (o Once) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
	}{"Once", o.Query})
}

// Optional succeeds even when its inner query has no solutions.
type Optional struct {
	Query Query `json:"query"`
}

func (Optional) isQuery()          {}
func (Optional) QueryType() string { return "Optional" }
func (o Optional) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
	}{"Optional", o.Query})
}

// --- Triple & document access ---

// Triple matches or asserts a single (subject, predicate, object) edge.
type Triple struct {
	Subject   Value `json:"subject"`
	Predicate Value `json:"predicate"`
	Object    Value `json:"object"`
	Graph     string `json:"graph,omitempty"`
}

func (Triple) isQuery()          {}
func (Triple) QueryType() string { return "Triple" }
func (t Triple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
		Graph     string `json:"graph,omitempty"`
	}{"Triple", t.Subject, t.Predicate, t.Object, t.Graph})
}

// AddTriple asserts an edge into the instance graph.
type AddTriple Triple

func (AddTriple) isQuery()          {}
func (AddTriple) QueryType() string { return "AddTriple" }
func (t AddTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"AddTriple", t.Subject, t.Predicate, t.Object})
}

// DeleteTriple retracts an edge from the instance graph.
type DeleteTriple Triple

func (DeleteTriple) isQuery()          {}
func (DeleteTriple) QueryType() string { return "DeleteTriple" }
func (t DeleteTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Subject   Value  `json:"subject"`
		Predicate Value  `json:"predicate"`
		Object    Value  `json:"object"`
	}{"DeleteTriple", t.Subject, t.Predicate, t.Object})
}

// ReadDocument fetches a whole document by id into a bound variable.
type ReadDocument struct {
	Identifier Value `json:"identifier"`
	Document   Value `json:"document"`
}

func (ReadDocument) isQuery()          {}
func (ReadDocument) QueryType() string { return "ReadDocument" }
func (r ReadDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"@type"`
		Identifier Value  `json:"identifier"`
		Document   Value  `json:"document"`
	}{"ReadDocument", r.Identifier, r.Document})
}

// InsertDocument inserts a new JSON-LD document, optionally binding its minted id.
type InsertDocument struct {
	Document   json.RawMessage `json:"document"`
	Identifier Value           `json:"identifier,omitempty"`
}

func (InsertDocument) isQuery()          {}
func (InsertDocument) QueryType() string { return "InsertDocument" }
func (d InsertDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string          `json:"@type"`
		Document   json.RawMessage `json:"document"`
		Identifier Value           `json:"identifier,omitempty"`
	}{"InsertDocument", d.Document, d.Identifier})
}

// UpdateDocument replaces a document's content in place.
type UpdateDocument struct {
	Document   json.RawMessage `json:"document"`
	Identifier Value           `json:"identifier,omitempty"`
}

func (UpdateDocument) isQuery()          {}
func (UpdateDocument) QueryType() string { return "UpdateDocument" }
func (d UpdateDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string          `json:"@type"`
		Document   json.RawMessage `json:"document"`
		Identifier Value           `json:"identifier,omitempty"`
	}{"UpdateDocument", d.Document, d.Identifier})
}

// DeleteDocument removes a document by id.
type DeleteDocument struct {
	Identifier Value `json:"identifier"`
}

func (DeleteDocument) isQuery()          {}
func (DeleteDocument) QueryType() string { return "DeleteDocument" }
func (d DeleteDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"@type"`
		Identifier Value  `json:"identifier"`
	}{"DeleteDocument", d.Identifier})
}

// --- Comparisons & predicates ---

// Eq succeeds when its two values unify or compare equal.
type Eq struct {
	Left, Right Value
}

func (Eq) isQuery()          {}
func (Eq) QueryType() string { return "Equals" }
func (e Eq) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Left  Value  `json:"left"`
		Right Value  `json:"right"`
	}{"Equals", e.Left, e.Right})
}

// Substr binds Substring to a slice of Full spanning [Before,Before+Length).
type Substr struct {
	Full, Substring, Before, Length, After Value
}

func (Substr) isQuery()          {}
func (Substr) QueryType() string { return "Substr" }
func (s Substr) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":     "Substr",
		"string":    s.Full,
		"before":    s.Before,
		"length":    s.Length,
		"after":     s.After,
		"substring": s.Substring,
	})
}

// Member succeeds once per element of a list, binding Element to each.
type Member struct {
	Element Value `json:"member"`
	List    Value `json:"list"`
}

func (Member) isQuery()          {}
func (Member) QueryType() string { return "Member" }
func (m Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"@type"`
		Element Value  `json:"member"`
		List    Value  `json:"list"`
	}{"Member", m.Element, m.List})
}

// IsA succeeds when Instance is a member of the class Class.
type IsA struct {
	Instance, Class Value
}

func (IsA) isQuery()          {}
func (IsA) QueryType() string { return "IsA" }
func (i IsA) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":        "IsA",
		"element":      i.Instance,
		"of_type":      i.Class,
	})
}

// --- Solution shaping ---

// Select restricts bound output to the named variables.
type Select struct {
	Variables []string `json:"variables"`
	Query     Query    `json:"query"`
}

func (Select) isQuery()          {}
func (Select) QueryType() string { return "Select" }
func (s Select) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string   `json:"@type"`
		Variables []string `json:"variables"`
		Query     Query    `json:"query"`
	}{"Select", s.Variables, s.Query})
}

// Distinct suppresses duplicate solutions over the named variables.
type Distinct struct {
	Variables []string `json:"variables"`
	Query     Query    `json:"query"`
}

func (Distinct) isQuery()          {}
func (Distinct) QueryType() string { return "Distinct" }
func (d Distinct) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string   `json:"@type"`
		Variables []string `json:"variables"`
		Query     Query    `json:"query"`
	}{"Distinct", d.Variables, d.Query})
}

// Limit caps the number of solutions returned by Query.
type Limit struct {
	N     uint64 `json:"limit"`
	Query Query  `json:"query"`
}

func (Limit) isQuery()          {}
func (Limit) QueryType() string { return "Limit" }
func (l Limit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		N     uint64 `json:"limit"`
		Query Query  `json:"query"`
	}{"Limit", l.N, l.Query})
}

// Start skips the first N solutions of Query.
type Start struct {
	N     uint64 `json:"start"`
	Query Query  `json:"query"`
}

func (Start) isQuery()          {}
func (Start) QueryType() string { return "Start" }
func (s Start) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		N     uint64 `json:"start"`
		Query Query  `json:"query"`
	}{"Start", s.N, s.Query})
}

// OrderDirection is Asc or Desc for an OrderBy clause.
type OrderDirection string

const (
	Asc  OrderDirection = "asc"
	Desc OrderDirection = "desc"
)

// OrderSpec pairs a variable with its sort direction.
type OrderSpec struct {
	Variable  string
	Direction OrderDirection
}

// OrderBy sorts solutions by one or more variables.
type OrderBy struct {
	Order []OrderSpec `json:"order"`
	Query Query       `json:"query"`
}

func (OrderBy) isQuery()          {}
func (OrderBy) QueryType() string { return "OrderBy" }
func (o OrderBy) MarshalJSON() ([]byte, error) {
	type spec struct {
		Variable  string         `json:"variable"`
		Direction OrderDirection `json:"order"`
	}
	specs := make([]spec, len(o.Order))
	for i, s := range o.Order {
		specs[i] = spec{s.Variable, s.Direction}
	}
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Order []spec `json:"order"`
		Query Query  `json:"query"`
	}{"OrderBy", specs, o.Query})
}

// --- Aggregates & arithmetic binding ---

// Count binds the number of solutions of Query into Into.
type Count struct {
	Query Query `json:"query"`
	Into  Value `json:"count"`
}

func (Count) isQuery()          {}
func (Count) QueryType() string { return "Count" }
func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Query Query  `json:"query"`
		Into  Value  `json:"count"`
	}{"Count", c.Query, c.Into})
}

// Eval evaluates an arithmetic expression and binds the result into Into.
type Eval struct {
	Expr ArithmeticExpression `json:"expression"`
	Into Value                `json:"result"`
}

func (Eval) isQuery()          {}
func (Eval) QueryType() string { return "Eval" }
func (e Eval) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string                `json:"@type"`
		Expr ArithmeticExpression  `json:"expression"`
		Into Value                 `json:"result"`
	}{"Eval", e.Expr, e.Into})
}

// --- Conditional ---

// If runs Then when Test succeeds, Else otherwise.
type If struct {
	Test, Then, Else Query
}

func (If) isQuery()          {}
func (If) QueryType() string { return "If" }
func (i If) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type": "If",
		"test":  i.Test,
		"then":  i.Then,
		"else":  i.Else,
	})
}

// --- Path queries ---

// Path matches a path pattern between Subject and Object, binding the
// traversed edge list into Path if non-nil.
type Path struct {
	Subject Value
	Pattern PathPattern
	Object  Value
	Path    Value
}

func (Path) isQuery()          {}
func (Path) QueryType() string { return "Path" }
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":   "Path",
		"subject": p.Subject,
		"pattern": p.Pattern,
		"object":  p.Object,
		"path":    p.Path,
	})
}

// --- Using / From / Into graph scoping ---

// Using scopes a sub-query to a specific collection (graph/branch).
type Using struct {
	Collection string `json:"collection"`
	Query      Query  `json:"query"`
}

func (Using) isQuery()          {}
func (Using) QueryType() string { return "Using" }
func (u Using) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"@type"`
		Collection string `json:"collection"`
		Query      Query  `json:"query"`
	}{"Using", u.Collection, u.Query})
}

// True always succeeds with no bindings; used as an identity element.
type True struct{}

func (True) isQuery()          {}
func (True) QueryType() string { return "True" }
func (True) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"@type": "True"})
}

// DecodeQuery decodes a JSON-LD query document by switching on its "@type"
// discriminant, the same pattern the teacher uses to decode polymorphic
// GraphDB action payloads.
func DecodeQuery(data []byte) (Query, error) {
	var head struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: decode query head: %w", err)
	}
	switch head.Type {
	case "True":
		return True{}, nil
	case "Triple":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return Triple{Subject: s, Predicate: p, Object: o, Graph: g} })
	case "AddTriple":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddTriple{Subject: s, Predicate: p, Object: o} })
	case "DeleteTriple":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return DeleteTriple{Subject: s, Predicate: p, Object: o} })
	case "Data":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return Data{Subject: s, Predicate: p, Object: o, Graph: g} })
	case "Link":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return Link{Subject: s, Predicate: p, Object: o, Graph: g} })
	case "AddData":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddData{Subject: s, Predicate: p, Object: o} })
	case "AddLink":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddLink{Subject: s, Predicate: p, Object: o} })
	case "DeleteLink":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return DeleteLink{Subject: s, Predicate: p, Object: o} })
	case "AddedTriple":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddedTriple{Subject: s, Predicate: p, Object: o} })
	case "AddedData":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddedData{Subject: s, Predicate: p, Object: o} })
	case "AddedLink":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return AddedLink{Subject: s, Predicate: p, Object: o} })
	case "DeletedTriple":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return DeletedTriple{Subject: s, Predicate: p, Object: o} })
	case "DeletedLink":
		return decodeSPO(data, func(s, p, o Value, g string) Query { return DeletedLink{Subject: s, Predicate: p, Object: o} })
	case "ReadDocument":
		return decodeDocOp(data, "identifier", "document", func(id, doc Value, _ json.RawMessage) Query {
			return ReadDocument{Identifier: id, Document: doc}
		})
	case "InsertDocument":
		return decodeDocRaw(data, func(id Value, raw json.RawMessage) Query {
			return InsertDocument{Identifier: id, Document: raw}
		})
	case "UpdateDocument":
		return decodeDocRaw(data, func(id Value, raw json.RawMessage) Query {
			return UpdateDocument{Identifier: id, Document: raw}
		})
	case "DeleteDocument":
		vs, err := DecodeValueFields(data, "identifier")
		if err != nil {
			return nil, err
		}
		return DeleteDocument{Identifier: vs[0]}, nil
	case "Equals":
		vs, err := DecodeValueFields(data, "left", "right")
		if err != nil {
			return nil, err
		}
		return Eq{Left: vs[0], Right: vs[1]}, nil
	case "Substr":
		return decodeSubstr(data)
	case "Member":
		vs, err := DecodeValueFields(data, "member", "list")
		if err != nil {
			return nil, err
		}
		return Member{Element: vs[0], List: vs[1]}, nil
	case "IsA":
		return decodeIsA(data)
	case "Select":
		return decodeSelectLike(data, func(vars []string, q Query) Query { return Select{Variables: vars, Query: q} })
	case "Distinct":
		return decodeSelectLike(data, func(vars []string, q Query) Query { return Distinct{Variables: vars, Query: q} })
	case "Limit":
		return decodeLimitStart(data, true)
	case "Start":
		return decodeLimitStart(data, false)
	case "OrderBy":
		return decodeOrderBy(data)
	case "Count":
		return decodeCount(data)
	case "And":
		return decodeQueryList(data, func(qs []Query) Query { return And{Queries: qs} })
	case "Or":
		return decodeQueryList(data, func(qs []Query) Query { return Or{Queries: qs} })
	case "Not":
		return decodeWrapped(data, func(q Query) Query { return Not{Query: q} })
	case "Once":
		return decodeWrapped(data, func(q Query) Query { return Once{Query: q} })
	case "Optional":
		return decodeWrapped(data, func(q Query) Query { return Optional{Query: q} })
	case "If":
		return decodeIf(data)
	case "Using":
		return decodeFromInto(data, false)
	case "Trim":
		vs, err := DecodeValueFields(data, "untrimmed", "trimmed")
		if err != nil {
			return nil, err
		}
		return Trim{Untrimmed: vs[0], Trimmed: vs[1]}, nil
	case "Lower":
		vs, err := DecodeValueFields(data, "mixed", "lower")
		if err != nil {
			return nil, err
		}
		return Lower{Mixed: vs[0], Lower: vs[1]}, nil
	case "Upper":
		vs, err := DecodeValueFields(data, "mixed", "upper")
		if err != nil {
			return nil, err
		}
		return Upper{Mixed: vs[0], Upper: vs[1]}, nil
	case "Pad":
		vs, err := DecodeValueFields(data, "string", "char", "times", "result")
		if err != nil {
			return nil, err
		}
		return Pad{String: vs[0], Char: vs[1], Times: vs[2], Result: vs[3]}, nil
	case "Split":
		vs, err := DecodeValueFields(data, "string", "pattern", "list")
		if err != nil {
			return nil, err
		}
		return Split{String: vs[0], Pattern: vs[1], List: vs[2]}, nil
	case "Join":
		vs, err := DecodeValueFields(data, "list", "separator", "result")
		if err != nil {
			return nil, err
		}
		return Join{List: vs[0], Separator: vs[1], Result: vs[2]}, nil
	case "Concatenate":
		vs, err := DecodeValueFields(data, "list", "result")
		if err != nil {
			return nil, err
		}
		return Concatenate{List: vs[0], Result: vs[1]}, nil
	case "Regexp":
		vs, err := DecodeValueFields(data, "pattern", "string", "result")
		if err != nil {
			return nil, err
		}
		return Regexp{Pattern: vs[0], String: vs[1], Result: vs[2]}, nil
	case "Like":
		vs, err := DecodeValueFields(data, "left", "right", "similarity")
		if err != nil {
			return nil, err
		}
		return Like{Left: vs[0], Right: vs[1], Similarity: vs[2]}, nil
	case "Less":
		vs, err := DecodeValueFields(data, "left", "right")
		if err != nil {
			return nil, err
		}
		return Less{Left: vs[0], Right: vs[1]}, nil
	case "Greater":
		vs, err := DecodeValueFields(data, "left", "right")
		if err != nil {
			return nil, err
		}
		return Greater{Left: vs[0], Right: vs[1]}, nil
	case "Subsumption":
		vs, err := DecodeValueFields(data, "child", "parent")
		if err != nil {
			return nil, err
		}
		return Subsumption{Child: vs[0], Parent: vs[1]}, nil
	case "TypeOf":
		return decodeTypeOf(data)
	case "Typecast":
		return decodeTypeCast(data)
	case "Immediately":
		return decodeWrapped(data, func(q Query) Query { return Immediately{Query: q} })
	case "Pin":
		return decodeWrapped(data, func(q Query) Query { return Pin{Query: q} })
	case "From":
		return decodeFromInto(data, true)
	case "Into":
		return decodeIntoGraph(data)
	case "Dot":
		return decodeDot(data)
	case "Length":
		vs, err := DecodeValueFields(data, "list", "length")
		if err != nil {
			return nil, err
		}
		return Length{List: vs[0], Result: vs[1]}, nil
	case "Sum":
		vs, err := DecodeValueFields(data, "list", "result")
		if err != nil {
			return nil, err
		}
		return Sum{List: vs[0], Result: vs[1]}, nil
	case "GroupBy":
		return decodeGroupBy(data)
	case "Get":
		return decodeGet(data)
	case "LexicalKey":
		return decodeKeyQuery(data, func(base, uri Value, kl []Value) Query {
			return LexicalKeyQuery{Base: base, KeyList: kl, URI: uri}
		})
	case "HashKey":
		return decodeKeyQuery(data, func(base, uri Value, kl []Value) Query {
			return HashKeyQuery{Base: base, KeyList: kl, URI: uri}
		})
	case "RandomKey":
		vs, err := DecodeValueFields(data, "base", "uri")
		if err != nil {
			return nil, err
		}
		return RandomKeyQuery{Base: vs[0], URI: vs[1]}, nil
	case "Size":
		return decodeSize(data)
	case "TripleCount":
		return decodeTripleCount(data)
	case "Call":
		return decodeCall(data)
	case "Path":
		return decodePath(data)
	default:
		return nil, fmt.Errorf("ast: unrecognized query @type %q", head.Type)
	}
}

// decodeSPO decodes the common subject/predicate/object/graph shape shared
// by Triple and its Data/Link/changeset-quantifying siblings.
func decodeSPO(data []byte, build func(s, p, o Value, graph string) Query) (Query, error) {
	vs, err := DecodeValueFields(data, "subject", "predicate", "object")
	if err != nil {
		return nil, err
	}
	var wire struct {
		Graph string `json:"graph"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return build(vs[0], vs[1], vs[2], wire.Graph), nil
}

func decodeDocOp(data []byte, idKey, docKey string, build func(id, doc Value, raw json.RawMessage) Query) (Query, error) {
	vs, err := DecodeValueFields(data, idKey, docKey)
	if err != nil {
		return nil, err
	}
	return build(vs[0], vs[1], nil), nil
}

func decodeDocRaw(data []byte, build func(id Value, raw json.RawMessage) Query) (Query, error) {
	var wire struct {
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "identifier")
	if err != nil {
		return nil, err
	}
	return build(vs[0], wire.Document), nil
}

func decodeSubstr(data []byte) (Query, error) {
	vs, err := DecodeValueFields(data, "string", "before", "length", "after", "substring")
	if err != nil {
		return nil, err
	}
	return Substr{Full: vs[0], Before: vs[1], Length: vs[2], After: vs[3], Substring: vs[4]}, nil
}

func decodeIsA(data []byte) (Query, error) {
	vs, err := DecodeValueFields(data, "element", "of_type")
	if err != nil {
		return nil, err
	}
	return IsA{Instance: vs[0], Class: vs[1]}, nil
}

func decodeSelectLike(data []byte, build func([]string, Query) Query) (Query, error) {
	var wire struct {
		Variables []string        `json:"variables"`
		Query     json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	return build(wire.Variables, inner), nil
}

func decodeLimitStart(data []byte, limit bool) (Query, error) {
	var wire struct {
		N     uint64          `json:"limit"`
		Start uint64          `json:"start"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	if limit {
		return Limit{N: wire.N, Query: inner}, nil
	}
	return Start{N: wire.Start, Query: inner}, nil
}

func decodeOrderBy(data []byte) (Query, error) {
	var wire struct {
		Order []struct {
			Variable  string         `json:"variable"`
			Direction OrderDirection `json:"order"`
		} `json:"order"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	specs := make([]OrderSpec, len(wire.Order))
	for i, o := range wire.Order {
		specs[i] = OrderSpec{Variable: o.Variable, Direction: o.Direction}
	}
	return OrderBy{Order: specs, Query: inner}, nil
}

func decodeCount(data []byte) (Query, error) {
	var wire struct {
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "count")
	if err != nil {
		return nil, err
	}
	return Count{Query: inner, Into: vs[0]}, nil
}

func decodeQueryList(data []byte, build func([]Query) Query) (Query, error) {
	var wire struct {
		And []json.RawMessage `json:"and"`
		Or  []json.RawMessage `json:"or"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	raw := wire.And
	if len(raw) == 0 {
		raw = wire.Or
	}
	qs := make([]Query, len(raw))
	for i, r := range raw {
		q, err := DecodeQuery(r)
		if err != nil {
			return nil, err
		}
		qs[i] = q
	}
	return build(qs), nil
}

func decodeWrapped(data []byte, build func(Query) Query) (Query, error) {
	var wire struct {
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	return build(inner), nil
}

func decodeIf(data []byte) (Query, error) {
	var wire struct {
		Test json.RawMessage `json:"test"`
		Then json.RawMessage `json:"then"`
		Else json.RawMessage `json:"else"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	test, err := DecodeQuery(wire.Test)
	if err != nil {
		return nil, err
	}
	then, err := DecodeQuery(wire.Then)
	if err != nil {
		return nil, err
	}
	els, err := DecodeQuery(wire.Else)
	if err != nil {
		return nil, err
	}
	return If{Test: test, Then: then, Else: els}, nil
}

func decodeTypeOf(data []byte) (Query, error) {
	vs, err := DecodeValueFields(data, "value", "type")
	if err != nil {
		return nil, err
	}
	return TypeOf{Element: vs[0], TypeIRI: vs[1]}, nil
}

func decodeTypeCast(data []byte) (Query, error) {
	vs, err := DecodeValueFields(data, "value", "type", "result")
	if err != nil {
		return nil, err
	}
	return TypeCast{Input: vs[0], TypeIRI: vs[1], Result: vs[2]}, nil
}

func decodeFromInto(data []byte, from bool) (Query, error) {
	var wire struct {
		Graph      string          `json:"graph"`
		Collection string          `json:"collection"`
		Query      json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	if from {
		return FromGraph{Graph: wire.Graph, Query: inner}, nil
	}
	if wire.Collection != "" {
		return Using{Collection: wire.Collection, Query: inner}, nil
	}
	return Using{Collection: wire.Graph, Query: inner}, nil
}

func decodeIntoGraph(data []byte) (Query, error) {
	var wire struct {
		Graph string          `json:"graph"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	return IntoGraph{Graph: wire.Graph, Query: inner}, nil
}

func decodeDot(data []byte) (Query, error) {
	vs, err := DecodeValueFields(data, "document", "field", "value")
	if err != nil {
		return nil, err
	}
	return Dot{Document: vs[0], Field: vs[1], Result: vs[2]}, nil
}

func decodeGroupBy(data []byte) (Query, error) {
	var wire struct {
		By    []string        `json:"group_by"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	inner, err := DecodeQuery(wire.Query)
	if err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "template", "grouped")
	if err != nil {
		return nil, err
	}
	return GroupBy{By: wire.By, Template: vs[0], Grouped: vs[1], Query: inner}, nil
}

func decodeKeyQuery(data []byte, build func(base, uri Value, keyList []Value) Query) (Query, error) {
	var wire struct {
		KeyList []json.RawMessage `json:"key_list"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	kl := make([]Value, len(wire.KeyList))
	for i, raw := range wire.KeyList {
		v, err := DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		kl[i] = v
	}
	vs, err := DecodeValueFields(data, "base", "uri")
	if err != nil {
		return nil, err
	}
	return build(vs[0], vs[1], kl), nil
}

func decodeCall(data []byte) (Query, error) {
	var wire struct {
		Name      string            `json:"name"`
		Arguments []json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	args := make([]Value, len(wire.Arguments))
	for i, raw := range wire.Arguments {
		v, err := DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return Call{Name: wire.Name, Arguments: args}, nil
}

func decodeSize(data []byte) (Query, error) {
	var wire struct {
		Resource string `json:"resource"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "size")
	if err != nil {
		return nil, err
	}
	return Size{Resource: wire.Resource, Result: vs[0]}, nil
}

func decodeTripleCount(data []byte) (Query, error) {
	var wire struct {
		Resource string `json:"resource"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "count")
	if err != nil {
		return nil, err
	}
	return TripleCount{Resource: wire.Resource, Result: vs[0]}, nil
}

func decodeGet(data []byte) (Query, error) {
	var wire struct {
		Columns  []json.RawMessage `json:"columns"`
		Resource struct {
			Source  json.RawMessage `json:"source"`
			Format  json.RawMessage `json:"format"`
			Options json.RawMessage `json:"options"`
		} `json:"resource"`
		HasHeader *bool `json:"has_header"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	cols := make([]Column, len(wire.Columns))
	for i, raw := range wire.Columns {
		var c struct {
			Indicator json.RawMessage `json:"indicator"`
			Variable  string          `json:"variable"`
			TypeOf    string          `json:"type"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		ind, err := DecodeIndicator(c.Indicator)
		if err != nil {
			return nil, err
		}
		cols[i] = Column{Indicator: ind, Variable: c.Variable, TypeOf: c.TypeOf}
	}
	var srcHead struct {
		Type string `json:"@type"`
		Post string `json:"post"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(wire.Resource.Source, &srcHead); err != nil {
		return nil, err
	}
	var source Source
	switch srcHead.Type {
	case "Post":
		source = SourcePost{Body: srcHead.Post}
	case "Url":
		source = SourceURL{URL: srcHead.URL}
	default:
		return nil, fmt.Errorf("ast: unrecognized resource source @type %q", srcHead.Type)
	}
	var format struct {
		Format string `json:"format"`
	}
	if len(wire.Resource.Format) > 0 {
		if err := json.Unmarshal(wire.Resource.Format, &format); err != nil {
			return nil, err
		}
	}
	return Get{
		Columns:   cols,
		Resource:  QueryResource{Source: source, Format: FormatType(format.Format), Options: wire.Resource.Options},
		HasHeader: wire.HasHeader,
	}, nil
}

func decodePath(data []byte) (Query, error) {
	var wire struct {
		Pattern json.RawMessage `json:"pattern"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	pattern, err := DecodePathPattern(wire.Pattern)
	if err != nil {
		return nil, err
	}
	vs, err := DecodeValueFields(data, "subject", "object", "path")
	if err != nil {
		return nil, err
	}
	return Path{Subject: vs[0], Pattern: pattern, Object: vs[1], Path: vs[2]}, nil
}
