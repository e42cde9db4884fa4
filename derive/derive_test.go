package derive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/schema"
)

type person struct {
	_    struct{} `tdb:"class=Person,key=lexical,key_fields=Email"`
	ID   string   `tdb:"id=true"`
	Name string   `tdb:"name=name"`
	Email string  `tdb:"name=email"`
}

type unnamedModel struct {
	Value int
}

func TestRegisterBuildsModelFromTags(t *testing.T) {
	m := Register[person]()
	require.Equal(t, "Person", m.ClassID)
	require.Equal(t, "ID", m.IDField)
	require.True(t, m.HasField("name"))
	require.True(t, m.HasField("email"))
	require.False(t, m.HasField("nope"))

	key, ok := m.Key.(schema.LexicalKey)
	require.True(t, ok)
	require.Equal(t, []string{"Email"}, key.Fields)
}

func TestRegisterIsIdempotentAndMemoized(t *testing.T) {
	m1 := Register[person]()
	m2 := Register[person]()
	require.Same(t, m1, m2)
}

func TestLookupUnregisteredReturnsNil(t *testing.T) {
	require.Nil(t, Lookup[unnamedModel]())
}

func TestDefaultsToTypeNameAndRandomKey(t *testing.T) {
	m := Register[unnamedModel]()
	require.Equal(t, "unnamedModel", m.ClassID)
	_, ok := m.Key.(schema.RandomKey)
	require.True(t, ok)
}

func TestToSchemaOmitsKeyField(t *testing.T) {
	m := Register[person]()
	c := m.ToSchema()
	for _, p := range c.Properties {
		require.NotEqual(t, "ID", p.Name)
	}
	require.Len(t, c.Properties, 2)
}
