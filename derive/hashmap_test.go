package derive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/schema"
)

type configDoc struct {
	_      struct{}          `tdb:"class=ConfigDoc"`
	ID     string            `tdb:"id=true"`
	Labels map[string]string `tdb:"name=labels"`
}

func TestHashMapFieldRegistersSyntheticEntryClass(t *testing.T) {
	m := Register[configDoc]()
	class := m.ToSchema()

	var labelsProp schema.Property
	for _, p := range class.Properties {
		if p.Name == "labels" {
			labelsProp = p
		}
	}
	require.Equal(t, "HashMapStringEntry", labelsProp.Range)
	require.Equal(t, schema.FamilySet, labelsProp.Family)

	s := &schema.Schema{}
	s.Add(class)
	tree, err := s.ToSchemaTree()
	require.NoError(t, err)

	var ids []string
	for _, raw := range tree {
		var head struct {
			ID string `json:"@id"`
		}
		require.NoError(t, json.Unmarshal(raw, &head))
		ids = append(ids, head.ID)
	}
	require.Contains(t, ids, "ConfigDoc")
	require.Contains(t, ids, "HashMapStringEntry")
}
