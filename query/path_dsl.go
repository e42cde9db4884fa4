package query

import (
	"fmt"
	"strings"

	"github.com/tdbgo/tdbgo/ast"
	"github.com/tdbgo/tdbgo/derive"
)

// RelationChain compiles a direction-chained relation expression such as
// "User > Post.comments > Comment" or "Comment < Post" into a conjunction
// of Triple and IsA clauses against s, one IsA and one variable per node and
// one Triple per edge. '>' reads "has a" left-to-right: the left node's
// forward-relation field points at the right node. '<' reads "belongs to":
// the right node's forward-relation field points back at the left node. A
// node may be written "alias:Model" to control its bound variable name, and
// "Model.field" to name the forward field explicitly rather than infer it
// from the adjacent model's class; field resolution falls back to the first
// forward relation on the source side whose target matches, same as the
// source implementation's default-field behavior. Returns the bound value
// for each node, in chain order.
func RelationChain(s *Scope, expr string) ([]ast.Value, error) {
	nodeToks, dirs, err := splitChain(expr)
	if err != nil {
		return nil, err
	}
	nodes := make([]pathNode, len(nodeToks))
	for i, tok := range nodeToks {
		n, err := parsePathNode(tok)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	models := make([]*derive.Model, len(nodes))
	vars := make([]ast.Value, len(nodes))
	for i, n := range nodes {
		m := derive.LookupByClassID(n.model)
		if m == nil {
			return nil, fmt.Errorf("query: model %q was never registered with derive.Register", n.model)
		}
		models[i] = m
		var v ast.Var
		if n.alias != "" {
			v = ast.Variable(n.alias)
		} else {
			v = s.Var(strings.ToLower(n.model))
		}
		vars[i] = v
		s.Add(ast.IsA{Instance: v, Class: ast.Node(m.ClassID)})
	}

	for i, dir := range dirs {
		left, right := i, i+1
		var sourceIdx, targetIdx int
		var field string
		switch dir {
		case '>':
			sourceIdx, targetIdx = left, right
			field = nodes[left].field
		case '<':
			sourceIdx, targetIdx = right, left
			field = nodes[right].field
		default:
			return nil, fmt.Errorf("query: unknown chain direction %q", dir)
		}
		fr, err := resolveForward(models[sourceIdx], field, models[targetIdx])
		if err != nil {
			return nil, err
		}
		s.Triple(vars[sourceIdx], ast.Node(fr.WireName), vars[targetIdx])
	}

	return vars, nil
}

func resolveForward(from *derive.Model, field string, to *derive.Model) (*derive.ForwardRelation, error) {
	for i := range from.Forward {
		fr := from.Forward[i]
		if field != "" && fr.Field != field && fr.WireName != field {
			continue
		}
		if fr.Target.ClassID == to.ClassID {
			return &from.Forward[i], nil
		}
	}
	if field != "" {
		return nil, fmt.Errorf("query: %s has no forward relation %q to %s", from.ClassID, field, to.ClassID)
	}
	return nil, fmt.Errorf("query: %s has no forward relation to %s", from.ClassID, to.ClassID)
}

type pathNode struct {
	alias string
	model string
	field string
}

func parsePathNode(tok string) (pathNode, error) {
	var n pathNode
	if idx := strings.IndexByte(tok, ':'); idx >= 0 {
		n.alias = strings.TrimSpace(tok[:idx])
		tok = tok[idx+1:]
	}
	if idx := strings.IndexByte(tok, '.'); idx >= 0 {
		n.model = strings.TrimSpace(tok[:idx])
		n.field = strings.TrimSpace(tok[idx+1:])
	} else {
		n.model = strings.TrimSpace(tok)
	}
	if n.model == "" {
		return n, fmt.Errorf("query: empty model name in chain expression %q", tok)
	}
	return n, nil
}

// splitChain tokenizes "A > B < C" into node tokens ["A","B","C"] and
// direction runes ['>','<'].
func splitChain(expr string) ([]string, []byte, error) {
	var nodes []string
	var dirs []byte
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '>', '<':
			nodes = append(nodes, strings.TrimSpace(expr[start:i]))
			dirs = append(dirs, expr[i])
			start = i + 1
		}
	}
	nodes = append(nodes, strings.TrimSpace(expr[start:]))
	for _, n := range nodes {
		if n == "" {
			return nil, nil, fmt.Errorf("query: malformed chain expression %q", expr)
		}
	}
	return nodes, dirs, nil
}
