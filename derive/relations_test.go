package derive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type treeNode struct {
	_      struct{}   `tdb:"class=TreeNode"`
	ID     string     `tdb:"id=true"`
	Name   string     `tdb:"name=name"`
	Parent *treeNode  `tdb:"name=parent,belongs_to=true"`
}

func TestRegisterHandlesSelfReferentialStruct(t *testing.T) {
	m := Register[treeNode]()
	require.Len(t, m.Forward, 1)
	fr := m.Forward[0]
	require.Equal(t, "Parent", fr.Field)
	require.Same(t, m, fr.Target)
	require.True(t, fr.BelongsTo)

	field, ok := m.BelongsToField()
	require.True(t, ok)
	require.Equal(t, "Parent", field)
}

type relCategory struct {
	_    struct{} `tdb:"class=RelCategory"`
	ID   string   `tdb:"id=true"`
	Name string   `tdb:"name=name"`
}

type relProduct struct {
	_   struct{}    `tdb:"class=RelProduct"`
	ID  string      `tdb:"id=true"`
	Cat relCategory `tdb:"name=category"`
}

func TestReverseRelationsOfFindsForwardEdges(t *testing.T) {
	Register[relProduct]()
	cat := Register[relCategory]()

	revs := ReverseRelationsOf(cat)
	require.Len(t, revs, 1)
	require.Equal(t, "Cat", revs[0].Field)
	require.Equal(t, "RelProduct", revs[0].Source.ClassID)
}

func TestLookupByClassID(t *testing.T) {
	Register[relProduct]()
	m := LookupByClassID("RelProduct")
	require.NotNil(t, m)
	require.Equal(t, "RelProduct", m.ClassID)

	require.Nil(t, LookupByClassID("NoSuchClass"))
}
