package derive

import (
	"sync"

	"github.com/tdbgo/tdbgo/schema"
)

// hashMapStringEntryClassID is the synthetic subdocument class a
// map[string]string field is encoded as: a Set of {key, value} pairs rather
// than a plain JSON object, since JSON-LD has no native map type and the
// server needs every entry addressable as its own subdocument.
const hashMapStringEntryClassID = "HashMapStringEntry"

var registerHashMapOnce sync.Once

// registerHashMapStringEntry registers the HashMapStringEntry subdocument
// class the first time any model with a map[string]string field is built.
func registerHashMapStringEntry() {
	registerHashMapOnce.Do(func() {
		schema.Register(schema.Class{
			ID:          hashMapStringEntryClassID,
			Subdocument: true,
			Key:         schema.RandomKey{},
			Properties: []schema.Property{
				{Name: "key", Range: "xsd:string", Family: schema.FamilyRequired},
				{Name: "value", Range: "xsd:string", Family: schema.FamilyRequired},
			},
		})
	})
}
