package instance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstanceSetGet(t *testing.T) {
	i := New("Person", "Person/1")
	i.Set("name", "Ada")
	v, ok := i.Get("name")
	require.True(t, ok)
	require.Equal(t, "Ada", v)

	i.Set("name", "Ada Lovelace")
	v, ok = i.Get("name")
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", v)

	_, ok = i.Get("missing")
	require.False(t, ok)
}

func TestInstanceToJSONRoundTrip(t *testing.T) {
	i := New("Person", "Person/1")
	i.Set("name", "Ada")
	i.Set("age", float64(36))

	friend := New("Person", "Person/2")
	friend.Set("name", "Charles")
	i.Set("friend", friend)

	raw, err := i.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "Person", decoded["@type"])
	require.Equal(t, "Person/1", decoded["@id"])

	back, err := FromJSON(raw)
	require.NoError(t, err)
	require.Equal(t, "Person", back.Type)
	require.Equal(t, "Person/1", back.ID)

	name, ok := back.Get("name")
	require.True(t, ok)
	require.Equal(t, "Ada", name)

	nestedFriend, ok := back.Get("friend")
	require.True(t, ok)
	sub, ok := nestedFriend.(*Instance)
	require.True(t, ok)
	require.Equal(t, "Person/2", sub.ID)
}

func TestToInstanceTreeDedupesSharedID(t *testing.T) {
	shared := New("Person", "Person/shared")
	shared.Set("name", "Shared")

	root := New("Person", "Person/1")
	root.Set("a", shared)
	root.Set("b", shared)

	tree, err := ToInstanceTree(root)
	require.NoError(t, err)

	count := 0
	for _, n := range tree {
		if n.ID == "Person/shared" {
			count++
		}
	}
	require.Equal(t, 1, count, "shared sub-instance must appear once")
	require.Len(t, tree, 2)
}

func TestToInstanceTreeHandlesLists(t *testing.T) {
	a := New("Tag", "Tag/a")
	b := New("Tag", "Tag/b")
	root := New("Post", "Post/1")
	root.Set("tags", []*Instance{a, b})

	tree, err := ToInstanceTree(root)
	require.NoError(t, err)
	require.Len(t, tree, 3)
}
