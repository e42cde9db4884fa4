// Package schema models the class/property definitions that the derive
// engine produces from Go structs and that the client sends to the server's
// schema-check endpoint.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// KeyStrategy selects how a class's instance identifiers are minted.
type KeyStrategy interface {
	isKeyStrategy()
	MarshalJSON() ([]byte, error)
}

// RandomKey mints a UUID-derived id for every new instance.
type RandomKey struct{}

func (RandomKey) isKeyStrategy() {}
func (RandomKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"@type": "Random"})
}

// LexicalKey derives the id deterministically from the listed field values.
type LexicalKey struct {
	Fields []string
}

func (LexicalKey) isKeyStrategy() {}
func (l LexicalKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":  "Lexical",
		"fields": l.Fields,
	})
}

// HashKey derives the id from a SHA-256 digest of the listed field values.
type HashKey struct {
	Fields []string
}

func (HashKey) isKeyStrategy() {}
func (h HashKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":  "Hash",
		"fields": h.Fields,
	})
}

// ValueHashKey derives the id from a digest of the instance's own content,
// computed by a caller-supplied closure rather than a fixed field list.
type ValueHashKey struct {
	Hash func(instance interface{}) (string, error)
}

func (ValueHashKey) isKeyStrategy() {}
func (ValueHashKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"@type": "ValueHash"})
}

// TypeFamily classifies how a Property's values relate to its Range class.
type TypeFamily string

const (
	FamilyRequired TypeFamily = "required" // exactly one value
	FamilyOptional TypeFamily = "optional" // zero or one value
	FamilySet      TypeFamily = "set"      // unordered zero-or-more
	FamilyList     TypeFamily = "list"     // ordered zero-or-more
	FamilyArray    TypeFamily = "array"    // fixed-dimension ordered
	FamilyCardinality TypeFamily = "cardinality"
)

// Property describes one field of a Class.
type Property struct {
	Name   string
	Range  string // the target class or xsd datatype IRI
	Family TypeFamily
	Min, Max uint64 // only meaningful when Family == FamilyCardinality
}

// Class is a document or subdocument type definition.
type Class struct {
	ID          string
	Doc         string
	Properties  []Property
	Key         KeyStrategy
	Subdocument bool
	Abstract    bool
	Inherits    []string
	Unfoldable  bool
	Base        string
}

// TaggedUnion describes a sum type: exactly one of its variant properties
// is ever present on a given instance.
type TaggedUnion struct {
	ID       string
	Doc      string
	Variants []Property
}

// Enum describes a closed set of symbolic values.
type Enum struct {
	ID     string
	Doc    string
	Values []string
}

// Definition is any of Class, TaggedUnion, or Enum — one entry in a schema.
type Definition interface {
	isDefinition()
	ClassID() string
	ToJSON() (json.RawMessage, error)
}

func (Class) isDefinition()     {}
func (c Class) ClassID() string { return c.ID }

func (c Class) ToJSON() (json.RawMessage, error) {
	props := map[string]interface{}{}
	for _, p := range c.Properties {
		props[p.Name] = propertyWireType(p)
	}
	wire := map[string]interface{}{
		"@type": "Class",
		"@id":   c.ID,
	}
	if c.Doc != "" {
		wire["@documentation"] = map[string]string{"@comment": c.Doc}
	}
	if c.Key != nil {
		wire["@key"] = c.Key
	}
	if c.Subdocument {
		wire["@subdocument"] = []string{}
	}
	if c.Abstract {
		wire["@abstract"] = []string{}
	}
	if c.Unfoldable {
		wire["@unfoldable"] = []string{}
	}
	if c.Base != "" {
		wire["@base"] = c.Base
	}
	if len(c.Inherits) > 0 {
		wire["@inherits"] = c.Inherits
	}
	for k, v := range props {
		wire[k] = v
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("schema: encode class %q: %w", c.ID, err)
	}
	return b, nil
}

func (TaggedUnion) isDefinition()     {}
func (t TaggedUnion) ClassID() string { return t.ID }
func (t TaggedUnion) ToJSON() (json.RawMessage, error) {
	wire := map[string]interface{}{
		"@type": "TaggedUnion",
		"@id":   t.ID,
	}
	for _, v := range t.Variants {
		wire[v.Name] = propertyWireType(v)
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("schema: encode tagged union %q: %w", t.ID, err)
	}
	return b, nil
}

func (Enum) isDefinition()     {}
func (e Enum) ClassID() string { return e.ID }
func (e Enum) ToJSON() (json.RawMessage, error) {
	b, err := json.Marshal(map[string]interface{}{
		"@type":  "Enum",
		"@id":    e.ID,
		"@value": e.Values,
	})
	if err != nil {
		return nil, fmt.Errorf("schema: encode enum %q: %w", e.ID, err)
	}
	return b, nil
}

func propertyWireType(p Property) interface{} {
	switch p.Family {
	case FamilyOptional:
		return map[string]string{"@type": "Optional", "@class": p.Range}
	case FamilySet:
		return map[string]string{"@type": "Set", "@class": p.Range}
	case FamilyList:
		return map[string]string{"@type": "List", "@class": p.Range}
	case FamilyArray:
		return map[string]string{"@type": "Array", "@class": p.Range}
	case FamilyCardinality:
		return map[string]interface{}{
			"@type": "Cardinality", "@class": p.Range,
			"@min": p.Min, "@max": p.Max,
		}
	default:
		return p.Range
	}
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Definition{}
)

// Register records a definition in the package-level registry keyed by its
// @id, so later calls to ToSchemaTree can resolve a bare class reference in
// a Property.Range or TaggedUnion variant into its full definition even
// when the Go model that owns the referencing field never directly added
// the referenced class to its own Schema. Re-registering the same @id
// overwrites the previous definition.
func Register(d Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.ClassID()] = d
}

func lookup(id string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[id]
	return d, ok
}

// Schema is an ordered collection of class/tagged-union/enum definitions,
// as sent in a single schema-check or insert request.
type Schema struct {
	Definitions []Definition
}

// ToSchemaTree renders the schema as the list of JSON-LD frames the server
// expects. It computes the transitive closure of the schema's Definitions
// under Property.Range / TaggedUnion.Variants references: any referenced
// class registered via Register but not already present in Definitions is
// pulled in and its own references walked in turn, until nothing new is
// found. References into the xsd: namespace are scalars, not classes, and
// are skipped. The result is deduplicated by @id so a class reachable by
// more than one path is only emitted once.
func (s *Schema) ToSchemaTree() ([]json.RawMessage, error) {
	seen := make(map[string]bool, len(s.Definitions))
	var ordered []Definition

	var visit func(d Definition)
	visit = func(d Definition) {
		if seen[d.ClassID()] {
			return
		}
		seen[d.ClassID()] = true
		ordered = append(ordered, d)
		for _, ref := range referencedClasses(d) {
			if seen[ref] {
				continue
			}
			if dep, ok := lookup(ref); ok {
				visit(dep)
			}
		}
	}

	for _, d := range s.Definitions {
		visit(d)
	}

	out := make([]json.RawMessage, 0, len(ordered))
	for _, d := range ordered {
		j, err := d.ToJSON()
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

// referencedClasses extracts the non-scalar Range/variant targets of a
// definition, the edges ToSchemaTree follows to build the closure.
func referencedClasses(d Definition) []string {
	var ranges []string
	switch def := d.(type) {
	case Class:
		for _, p := range def.Properties {
			ranges = append(ranges, p.Range)
		}
		ranges = append(ranges, def.Inherits...)
	case TaggedUnion:
		for _, v := range def.Variants {
			ranges = append(ranges, v.Range)
		}
	case Enum:
		return nil
	}
	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r == "" || strings.HasPrefix(r, "xsd:") {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Add appends a definition to the schema if its @id has not already been
// added, and registers it in the package-level registry so other schemas
// can pull it into their own transitive closure.
func (s *Schema) Add(d Definition) {
	Register(d)
	for _, existing := range s.Definitions {
		if existing.ClassID() == d.ClassID() {
			return
		}
	}
	s.Definitions = append(s.Definitions, d)
}
