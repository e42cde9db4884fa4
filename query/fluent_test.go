package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/ast"
)

func TestClauseChainingBuildsNestedQuery(t *testing.T) {
	base := Wrap(ast.Triple{Subject: Node("a"), Predicate: Node("knows"), Object: Node("b")})

	q := base.Or(ast.Triple{Subject: Node("a"), Predicate: Node("likes"), Object: Node("b")}).
		Optional().
		Limit(5).
		Build()

	limit, ok := q.(ast.Limit)
	require.True(t, ok)
	require.Equal(t, uint64(5), limit.N)

	opt, ok := limit.Query.(ast.Optional)
	require.True(t, ok)

	or, ok := opt.Query.(ast.Or)
	require.True(t, ok)
	require.Len(t, or.Queries, 2)
}

func TestClauseNotAndOnce(t *testing.T) {
	base := Wrap(ast.True{})
	require.Equal(t, "Not", base.Not().Build().QueryType())
	require.Equal(t, "Once", base.Once().Build().QueryType())
}

func TestClauseSelectDistinctStartOrderByGroupBy(t *testing.T) {
	base := Wrap(ast.True{})
	require.Equal(t, "Select", base.Select("X").Build().QueryType())
	require.Equal(t, "Distinct", base.Distinct("X").Build().QueryType())
	require.Equal(t, "Start", base.Start(3).Build().QueryType())
	require.Equal(t, "OrderBy", base.OrderBy(OrderAsc("X")).Build().QueryType())
	require.Equal(t, "GroupBy", base.GroupBy([]string{"X"}, Node("t"), Node("g")).Build().QueryType())
}

func TestGreaterLessSubsumption(t *testing.T) {
	require.Equal(t, "Greater", Greater(Int(1), Int(2)).QueryType())
	require.Equal(t, "Less", Less(Int(1), Int(2)).QueryType())
	require.Equal(t, "Subsumption", Subsumption(Node("Dog"), Node("Animal")).QueryType())
}

func TestScopeLevelCombinators(t *testing.T) {
	q := Build(func(s *Scope) {
		s.Or(ast.True{}, ast.True{})
		s.Not(ast.True{})
		s.Once(ast.True{})
		s.Optional(ast.True{})
		s.Greater(Int(1), Int(2))
		s.Less(Int(1), Int(2))
	})
	and, ok := q.(ast.And)
	require.True(t, ok)
	require.Len(t, and.Queries, 6)
}
