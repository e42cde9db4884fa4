package query

import (
	"fmt"
	"time"

	"github.com/tdbgo/tdbgo/ast"
)

// V, Node, and L are short, DSL-flavored constructors mirroring the
// source's v()/node()/list() helper macros.

func V(name string) ast.Var           { return ast.Variable(name) }
func Node(iri string) ast.NodeValue   { return ast.Node(iri) }
func L(vs ...ast.Value) ast.ListValue { return ast.List(vs...) }

// Str, Int, Bool, and Float lift Go literals into DataValue nodes.
func Str(s string) ast.DataValue   { return ast.Str(s) }
func Int(i int64) ast.DataValue    { return ast.Int(i) }
func Bool(b bool) ast.DataValue    { return ast.Bool(b) }
func Float(f float64) ast.DataValue { return ast.Float(f) }

// DateTime, Date, and Time encode a time.Time as the corresponding XSD
// scalar, using RFC 3339 (dateTime), the date-only prefix (date), and the
// time-only suffix (time) respectively.
func DateTime(t time.Time) ast.DataValue {
	return ast.DataValue{Kind: ast.XSDDateTime, Raw: t.Format(time.RFC3339)}
}

func Date(t time.Time) ast.DataValue {
	return ast.DataValue{Kind: ast.XSDDate, Raw: t.Format("2006-01-02")}
}

func Time(t time.Time) ast.DataValue {
	return ast.DataValue{Kind: ast.XSDTime, Raw: t.Format("15:04:05")}
}

// FromPath builds a Path query, the Go replacement for from_path!{...}.
// pattern is typically built with Seq/OrPath/Plus/Star/Times/Pred from the
// ast package.
func FromPath(subject ast.Value, pattern ast.PathPattern, object ast.Value, bindPathInto ast.Value) ast.Query {
	return ast.Path{Subject: subject, Pattern: pattern, Object: object, Path: bindPathInto}
}

// PathFromString parses a compact path expression such as "knows+/name" into
// a PathPattern, supporting '/' sequencing, '|' alternation, '+', '*', and a
// leading '^' for inversion of a single predicate segment. This is a
// convenience layer over the ast path constructors for callers who would
// rather write a string than nest constructors, grounded in the string
// forms accepted by BranchSpec elsewhere in this module.
func PathFromString(expr string) (ast.PathPattern, error) {
	segs, err := splitTop(expr, '/')
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("query: empty path expression")
	}
	steps := make([]ast.PathPattern, 0, len(segs))
	for _, seg := range segs {
		p, err := parsePathSegment(seg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, p)
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return ast.Seq(steps...), nil
}

func parsePathSegment(seg string) (ast.PathPattern, error) {
	alts, err := splitTop(seg, '|')
	if err != nil {
		return nil, err
	}
	if len(alts) > 1 {
		patterns := make([]ast.PathPattern, 0, len(alts))
		for _, a := range alts {
			p, err := parsePathAtom(a)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, p)
		}
		return ast.OrPath(patterns...), nil
	}
	return parsePathAtom(seg)
}

func parsePathAtom(atom string) (ast.PathPattern, error) {
	if atom == "" {
		return nil, fmt.Errorf("query: empty path segment")
	}
	inverse := false
	if atom[0] == '^' {
		inverse = true
		atom = atom[1:]
	}
	var repeat byte
	if n := len(atom); n > 0 && (atom[n-1] == '+' || atom[n-1] == '*') {
		repeat = atom[n-1]
		atom = atom[:n-1]
	}
	var p ast.PathPattern = ast.Pred(atom)
	if inverse {
		p = ast.Inverse(p)
	}
	switch repeat {
	case '+':
		p = ast.Plus(p)
	case '*':
		p = ast.Star(p)
	}
	return p, nil
}

func splitTop(s string, sep byte) ([]string, error) {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out, nil
}
