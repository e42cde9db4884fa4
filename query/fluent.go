package query

import "github.com/tdbgo/tdbgo/ast"

// Clause wraps an ast.Query to provide fluent combinators over it — the Go
// replacement for the chained .and()/.or()/.optional() calls a query!{...}
// block compiles down to in the source implementation. Every method returns
// a new Clause; none mutate the receiver.
type Clause struct {
	Query ast.Query
}

// Wrap lifts a plain ast.Query into a Clause so it can be chained.
func Wrap(q ast.Query) Clause { return Clause{Query: q} }

// And conjoins the receiver with others.
func (c Clause) And(others ...ast.Query) Clause {
	return Clause{Query: ast.And{Queries: append([]ast.Query{c.Query}, others...)}}
}

// Or unions the receiver with others.
func (c Clause) Or(others ...ast.Query) Clause {
	return Clause{Query: ast.Or{Queries: append([]ast.Query{c.Query}, others...)}}
}

// Not negates the receiver.
func (c Clause) Not() Clause { return Clause{Query: ast.Not{Query: c.Query}} }

// Once caps the receiver to at most one solution.
func (c Clause) Once() Clause { return Clause{Query: ast.Once{Query: c.Query}} }

// Optional makes the receiver succeed even with no solutions.
func (c Clause) Optional() Clause { return Clause{Query: ast.Optional{Query: c.Query}} }

// Select restricts output bindings to vars.
func (c Clause) Select(vars ...string) Clause {
	return Clause{Query: ast.Select{Variables: vars, Query: c.Query}}
}

// Distinct suppresses duplicate solutions over vars.
func (c Clause) Distinct(vars ...string) Clause {
	return Clause{Query: ast.Distinct{Variables: vars, Query: c.Query}}
}

// Limit caps the receiver to at most n solutions.
func (c Clause) Limit(n uint64) Clause {
	return Clause{Query: ast.Limit{N: n, Query: c.Query}}
}

// Start skips the first n solutions of the receiver.
func (c Clause) Start(n uint64) Clause {
	return Clause{Query: ast.Start{N: n, Query: c.Query}}
}

// OrderBy sorts the receiver's solutions by specs, in order.
func (c Clause) OrderBy(specs ...ast.OrderSpec) Clause {
	return Clause{Query: ast.OrderBy{Order: specs, Query: c.Query}}
}

// GroupBy partitions the receiver's solutions as ast.GroupBy does.
func (c Clause) GroupBy(by []string, template, grouped ast.Value) Clause {
	return Clause{Query: ast.GroupBy{By: by, Template: template, Grouped: grouped, Query: c.Query}}
}

// Build returns the accumulated ast.Query, the terminal call of a chain.
func (c Clause) Build() ast.Query { return c.Query }

// Greater, Less, and Subsumption lift the corresponding comparison ops to
// package-level constructors so a chain can feed them straight into And/Or.
func Greater(left, right ast.Value) ast.Query     { return ast.Greater{Left: left, Right: right} }
func Less(left, right ast.Value) ast.Query        { return ast.Less{Left: left, Right: right} }
func Subsumption(child, parent ast.Value) ast.Query { return ast.Subsumption{Child: child, Parent: parent} }

// OrderAsc and OrderDesc build an OrderSpec for the named variable.
func OrderAsc(v string) ast.OrderSpec  { return ast.OrderSpec{Variable: v, Direction: ast.Asc} }
func OrderDesc(v string) ast.OrderSpec { return ast.OrderSpec{Variable: v, Direction: ast.Desc} }

// OrderByVars sorts q's solutions by specs, in order — the package-level
// counterpart of Select/Limit/Distinct for a whole built query.
func OrderByVars(q ast.Query, specs ...ast.OrderSpec) ast.Query {
	return ast.OrderBy{Order: specs, Query: q}
}

// GroupByVars partitions q's solutions by the named variables as ast.GroupBy
// does, the package-level counterpart of Select/Limit/Distinct.
func GroupByVars(q ast.Query, by []string, template, grouped ast.Value) ast.Query {
	return ast.GroupBy{By: by, Template: template, Grouped: grouped, Query: q}
}

// Or, Not, Once, Optional, Greater, and Less add the corresponding clause
// to the scope directly, the Scope-level counterpart of Clause's chaining
// for callers building up a query inside a Build closure.

// Or adds a disjunction of alternatives as one clause.
func (s *Scope) Or(alternatives ...ast.Query) {
	s.Add(ast.Or{Queries: alternatives})
}

// Optional adds q as a clause that does not fail the whole query when it
// has no solutions.
func (s *Scope) Optional(q ast.Query) {
	s.Add(ast.Optional{Query: q})
}

// Not adds the negation of q as a clause.
func (s *Scope) Not(q ast.Query) {
	s.Add(ast.Not{Query: q})
}

// Once adds q capped to at most one solution as a clause.
func (s *Scope) Once(q ast.Query) {
	s.Add(ast.Once{Query: q})
}

// Greater adds a Left > Right comparison clause.
func (s *Scope) Greater(left, right ast.Value) {
	s.Add(ast.Greater{Left: left, Right: right})
}

// Less adds a Left < Right comparison clause.
func (s *Scope) Less(left, right ast.Value) {
	s.Add(ast.Less{Left: left, Right: right})
}
