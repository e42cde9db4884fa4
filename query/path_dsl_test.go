package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/ast"
	"github.com/tdbgo/tdbgo/derive"
)

type relPost struct {
	_     struct{} `tdb:"class=RelPost"`
	ID    string   `tdb:"id=true"`
	Title string   `tdb:"name=title"`
}

type relUser struct {
	_     struct{}  `tdb:"class=RelUser"`
	ID    string    `tdb:"id=true"`
	Posts []relPost `tdb:"name=posts"`
}

func TestRelationChainForward(t *testing.T) {
	derive.Register[relUser]()
	derive.Register[relPost]()

	var vars []ast.Value
	q := Build(func(s *Scope) {
		v, err := RelationChain(s, "RelUser > RelPost")
		require.NoError(t, err)
		vars = v
	})

	require.Len(t, vars, 2)
	and, ok := q.(ast.And)
	require.True(t, ok)
	// one IsA per node, one Triple per edge
	require.Len(t, and.Queries, 3)

	var triples int
	for _, clause := range and.Queries {
		if tr, ok := clause.(ast.Triple); ok {
			triples++
			pred, ok := tr.Predicate.(ast.NodeValue)
			require.True(t, ok)
			require.Equal(t, "posts", pred.IRI)
		}
	}
	require.Equal(t, 1, triples)
}

func TestRelationChainBackward(t *testing.T) {
	derive.Register[relUser]()
	derive.Register[relPost]()

	q := Build(func(s *Scope) {
		_, err := RelationChain(s, "RelPost < RelUser")
		require.NoError(t, err)
	})

	and, ok := q.(ast.And)
	require.True(t, ok)
	require.Len(t, and.Queries, 3)
}

func TestRelationChainAliasAndExplicitField(t *testing.T) {
	derive.Register[relUser]()
	derive.Register[relPost]()

	var vars []ast.Value
	Build(func(s *Scope) {
		v, err := RelationChain(s, "u:RelUser.posts > p:RelPost")
		require.NoError(t, err)
		vars = v
	})

	first, ok := vars[0].(ast.Var)
	require.True(t, ok)
	require.Equal(t, "u", first.Name)

	second, ok := vars[1].(ast.Var)
	require.True(t, ok)
	require.Equal(t, "p", second.Name)
}

func TestRelationChainUnknownModelErrors(t *testing.T) {
	_, err := RelationChain(&Scope{}, "NoSuchModel > RelPost")
	require.Error(t, err)
}
