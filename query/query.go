// Package query provides a fluent Go replacement for the source
// implementation's query!{...} and from_path!{...} block macros, which have
// no Go equivalent. Build takes a closure over a *Scope whose typed helpers
// are constrained by Go generics to a registered model's property set,
// checked against the derive registry when the closure runs rather than at
// compile time — a deliberate, documented weakening (see DESIGN.md).
package query

import (
	"fmt"

	"github.com/tdbgo/tdbgo/ast"
	"github.com/tdbgo/tdbgo/derive"
)

// Scope is the builder object passed into a Build closure. It accumulates
// query clauses and exposes fresh variables.
type Scope struct {
	clauses []ast.Query
	varSeq  int
}

// Build runs fn with a fresh Scope and returns the resulting conjunction of
// every clause fn added, the Go-idiomatic stand-in for query!{...}.
func Build(fn func(s *Scope)) ast.Query {
	s := &Scope{}
	fn(s)
	if len(s.clauses) == 0 {
		return ast.True{}
	}
	if len(s.clauses) == 1 {
		return s.clauses[0]
	}
	return ast.And{Queries: s.clauses}
}

// Var mints a fresh, uniquely-named logic variable scoped to this builder.
func (s *Scope) Var(hint string) ast.Var {
	s.varSeq++
	return ast.Variable(fmt.Sprintf("%s_%d", hint, s.varSeq))
}

// Add appends a clause to the conjunction under construction.
func (s *Scope) Add(q ast.Query) {
	s.clauses = append(s.clauses, q)
}

// Triple adds a Subject/Predicate/Object edge clause.
func (s *Scope) Triple(subject, predicate, object ast.Value) {
	s.Add(ast.Triple{Subject: subject, Predicate: predicate, Object: object})
}

// Field returns the wire property name for model M's field, panicking if M
// was never registered or does not declare that field — the runtime
// analogue of the original's compile-time field validation.
func Field[M any](name string) string {
	model := derive.Lookup[M]()
	if model == nil {
		panic(fmt.Sprintf("query: model %T was never registered with derive.Register", *new(M)))
	}
	if !model.HasField(name) {
		panic(fmt.Sprintf("query: %s has no field %q", model.ClassID, name))
	}
	return name
}

// On scopes a closure-built query to model M's class, conjoining an IsA
// clause ahead of whatever fn adds.
func On[M any](instance ast.Value, fn func(s *Scope)) ast.Query {
	model := derive.Lookup[M]()
	if model == nil {
		panic(fmt.Sprintf("query: model %T was never registered with derive.Register", *new(M)))
	}
	s := &Scope{}
	s.Add(ast.IsA{Instance: instance, Class: ast.Node(model.ClassID)})
	fn(s)
	return ast.And{Queries: s.clauses}
}

// Select restricts q's output bindings to the named variables.
func Select(q ast.Query, vars ...string) ast.Query {
	return ast.Select{Variables: vars, Query: q}
}

// Limit caps q to at most n solutions.
func Limit(q ast.Query, n uint64) ast.Query {
	return ast.Limit{N: n, Query: q}
}

// Distinct suppresses duplicate solutions over the named variables.
func Distinct(q ast.Query, vars ...string) ast.Query {
	return ast.Distinct{Variables: vars, Query: q}
}
