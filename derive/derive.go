// Package derive stands in for the source implementation's derive macros.
// Go has no macro system, so instead of generating code per type, a model's
// schema and (de)serialization behavior are computed once at runtime by
// walking its reflect.Type and reading a `tdb:"..."` struct tag vocabulary
// that mirrors the original attribute set one-for-one.
package derive

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/tdbgo/tdbgo/schema"
)

// FieldKind classifies how a struct field maps onto the wire, shared between
// buildModel's schema generation and the ToInstance/FromInstance codec so
// the two never drift out of sync on what a given Go type means.
type FieldKind int

const (
	kindScalar FieldKind = iota
	kindTime
	kindEnum
	kindHashMap
	kindNestedStruct
	kindNestedSlice
	kindScalarSlice
	kindEntityID
	kindServerID
	kindLazy
)

var timeType = reflect.TypeOf(time.Time{})

// classifyType inspects a (already pointer-unwrapped) Go type and reports
// which wire shape it takes, plus the "inner" type relevant to that shape:
// the element type for a slice, the struct type itself for a nested
// document, the declared type itself otherwise.
func classifyType(t reflect.Type) (FieldKind, reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return kindTime, t
	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.String:
		return kindHashMap, t
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		elem := t.Elem()
		for elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct && elem != timeType && !isIdentityWrapper(elem) {
			return kindNestedSlice, elem
		}
		return kindScalarSlice, elem
	case t.Kind() == reflect.Struct:
		switch {
		case strings.HasPrefix(t.Name(), "EntityIDFor"):
			return kindEntityID, t
		case strings.HasPrefix(t.Name(), "ServerIDFor"):
			return kindServerID, t
		case strings.HasPrefix(t.Name(), "TdbLazy"):
			return kindLazy, t
		default:
			return kindNestedStruct, t
		}
	case t.Kind() == reflect.String:
		if t.PkgPath() != "" {
			// A named string type (type Status string), as opposed to the
			// builtin string, is treated as an enum candidate.
			return kindEnum, t
		}
		return kindScalar, t
	default:
		return kindScalar, t
	}
}

func isIdentityWrapper(t reflect.Type) bool {
	return strings.HasPrefix(t.Name(), "EntityIDFor") ||
		strings.HasPrefix(t.Name(), "ServerIDFor") ||
		strings.HasPrefix(t.Name(), "TdbLazy")
}

// FieldInfo is the parsed `tdb:"..."` tag plus the reflected field it came from.
type FieldInfo struct {
	Go       reflect.StructField
	Name     string // wire property name, defaults to the Go field name
	Rename   string
	Family   schema.TypeFamily
	KeyField bool
	Kind     FieldKind
	Elem     reflect.Type // relevant inner type per Kind: element/target/enum type
}

// Model is the registered shape of a Go struct: its class id, key strategy,
// and field list. One Model exists per distinct reflect.Type, built once.
type Model struct {
	Type        reflect.Type
	ClassID     string
	Doc         string
	Key         schema.KeyStrategy
	Subdocument bool
	Abstract    bool
	Inherits    []string
	Unfoldable  bool
	Base        string
	Fields      []FieldInfo
	IDField     string // Go field name holding the entity's identifier, if any
	Forward     []ForwardRelation
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*Model{}
)

// Register builds and memoizes the Model for T, panicking on the first
// registration of a malformed model (the closest Go analogue to the
// source's compile-time derive-macro errors, since Go cannot fail a build
// over a tag string). Safe to call repeatedly and concurrently; the actual
// reflection work runs exactly once per type. It is a thin generic wrapper
// over registerType, which does the real work without needing a compile-time
// type argument — the shape buildModel needs when it discovers a nested
// relation field only as a runtime reflect.Type.
func Register[T any]() *Model {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		panic("derive: cannot register a nil interface type")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return registerType(t)
}

// registerType is the non-generic core of Register. Unlike Register, it can
// be called with a reflect.Type obtained at runtime (e.g. a nested struct
// field discovered while building another model's Model), which Go's type
// system has no way to turn back into a generic type argument.
//
// The Model for t is inserted into the registry before its fields are
// populated, not after. That ordering matters for self-referential or
// mutually-referential struct graphs (a tree node whose Parent field points
// back at its own type, or two models that each hold a forward relation to
// the other): the recursive registerType(t) call reached while walking such
// a field finds the already-registered (still-being-populated) *Model and
// returns it immediately instead of re-entering buildModel, which would
// otherwise recurse forever.
func registerType(t reflect.Type) *Model {
	registryMu.Lock()
	if m, ok := registry[t]; ok {
		registryMu.Unlock()
		return m
	}
	m := &Model{Type: t}
	registry[t] = m
	registryMu.Unlock()

	buildModel(m, t)
	return m
}

// Lookup returns the already-registered Model for T, or nil if T has never
// been passed to Register.
func Lookup[T any]() *Model {
	var zero T
	t := reflect.TypeOf(zero)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[t]
}

// lookupType is Lookup's non-generic counterpart, used internally wherever
// only a reflect.Type is at hand.
func lookupType(t reflect.Type) *Model {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[t]
}

// allModels returns a snapshot of every currently registered model, used by
// ReverseRelationsOf to scan for back-references.
func allModels() []*Model {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Model, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	return out
}

// buildModel populates m (already inserted into the registry by
// registerType) with t's class metadata and fields.
func buildModel(m *Model, t reflect.Type) {
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("derive: %s is not a struct", t))
	}

	classTag, classAttrs := parseClassTag(t)
	m.ClassID = classTag
	for k, v := range classAttrs {
		switch k {
		case "doc":
			m.Doc = v
		case "subdocument":
			m.Subdocument = v == "true"
		case "abstract":
			m.Abstract = v == "true"
		case "unfoldable":
			m.Unfoldable = v == "true"
		case "base":
			m.Base = v
		case "inherits":
			m.Inherits = strings.Split(v, "|")
		case "key":
			m.Key = parseKeyStrategy(v, classAttrs)
		}
	}
	if m.Key == nil {
		m.Key = schema.RandomKey{}
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		if f.Name == "_" {
			continue // class-level tag holder, not a real property
		}
		tag, ok := f.Tag.Lookup("tdb")
		info := FieldInfo{Go: f, Name: f.Name, Family: schema.FamilyRequired}
		var belongsTo bool
		if ok {
			attrs := parseAttrs(tag)
			if name, ok := attrs["name"]; ok {
				info.Name = name
			}
			if attrs["id"] == "true" {
				info.KeyField = true
				m.IDField = f.Name
			}
			if fam, ok := attrs["family"]; ok {
				info.Family = schema.TypeFamily(fam)
			}
			belongsTo = attrs["belongs_to"] == "true"
		}

		kind, elem := classifyType(f.Type)
		info.Kind = kind
		info.Elem = elem
		if info.Family == schema.FamilyRequired && (kind == kindNestedSlice || kind == kindScalarSlice || kind == kindHashMap) {
			info.Family = schema.FamilySet
		}
		if info.Family == schema.FamilyRequired && f.Type.Kind() == reflect.Ptr {
			info.Family = schema.FamilyOptional
		}

		switch kind {
		case kindNestedStruct:
			target := registerType(elem)
			m.Forward = append(m.Forward, ForwardRelation{
				Field: f.Name, WireName: info.Name, Target: target, BelongsTo: belongsTo,
			})
		case kindNestedSlice:
			target := registerType(elem)
			m.Forward = append(m.Forward, ForwardRelation{
				Field: f.Name, WireName: info.Name, Target: target, Many: true, BelongsTo: belongsTo,
			})
		case kindHashMap:
			registerHashMapStringEntry()
		}

		m.Fields = append(m.Fields, info)
	}
}

func parseClassTag(t reflect.Type) (string, map[string]string) {
	sf, ok := t.FieldByName("_")
	var raw string
	if ok {
		raw, _ = sf.Tag.Lookup("tdb")
	}
	attrs := parseAttrs(raw)
	class := attrs["class"]
	if class == "" {
		class = t.Name()
	}
	return class, attrs
}

func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			attrs[kv[0]] = kv[1]
		} else {
			attrs[kv[0]] = "true"
		}
	}
	return attrs
}

func parseKeyStrategy(kind string, attrs map[string]string) schema.KeyStrategy {
	fields := strings.Split(attrs["key_fields"], "|")
	switch kind {
	case "lexical":
		return schema.LexicalKey{Fields: fields}
	case "hash":
		return schema.HashKey{Fields: fields}
	case "value_hash":
		return schema.ValueHashKey{}
	default:
		return schema.RandomKey{}
	}
}

// ToSchema renders every field of m except the id field into a
// schema.Class. Enum and relation targets appear in it only as Range
// references; their own definitions are pulled in by ToSchemaTree's
// transitive closure over the package registry.
func (m *Model) ToSchema() schema.Class {
	c := schema.Class{
		ID:          m.ClassID,
		Doc:         m.Doc,
		Key:         m.Key,
		Subdocument: m.Subdocument,
		Abstract:    m.Abstract,
		Inherits:    m.Inherits,
		Unfoldable:  m.Unfoldable,
		Base:        m.Base,
	}
	for _, f := range m.Fields {
		if f.KeyField {
			continue
		}
		c.Properties = append(c.Properties, schema.Property{
			Name:   f.Name,
			Range:  fieldRange(f),
			Family: f.Family,
		})
	}
	return c
}

func fieldRange(f FieldInfo) string {
	switch f.Kind {
	case kindTime:
		return "xsd:dateTime"
	case kindHashMap:
		return hashMapStringEntryClassID
	case kindEnum:
		if em := lookupEnumByType(f.Elem); em != nil {
			return em.ClassID
		}
		return "xsd:string"
	case kindNestedStruct, kindNestedSlice:
		if tm := lookupType(f.Elem); tm != nil {
			return tm.ClassID
		}
		return f.Elem.Name()
	case kindEntityID, kindServerID, kindLazy:
		return "xsd:string"
	case kindScalarSlice:
		return goKindToRange(f.Elem)
	default:
		return goKindToRange(f.Elem)
	}
}

func goKindToRange(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "xsd:string"
	case reflect.Bool:
		return "xsd:boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "xsd:integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "xsd:nonNegativeInteger"
	case reflect.Float32, reflect.Float64:
		return "xsd:double"
	case reflect.Struct:
		return t.Name()
	case reflect.Slice, reflect.Array:
		return goKindToRange(t.Elem())
	default:
		return "xsd:string"
	}
}

// HasField reports whether the registered model for T has a property with
// the given wire name; used by the query package to validate field
// references against the model at closure-execution time.
func (m *Model) HasField(name string) bool {
	for _, f := range m.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
