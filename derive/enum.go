package derive

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tdbgo/tdbgo/schema"
)

// EnumModel is the registered shape of a closed, named-string Go type: the
// set of values it may take, and the lowercase wire form each one encodes
// to. Encoding always lowercases; decoding looks the wire value up without
// further case folding, so the value "Active" goes out as "active" and only
// "active" is accepted coming back in.
type EnumModel struct {
	Type    reflect.Type
	ClassID string
	Values  []string // original-case Go constant values, registration order
	wireOf  map[string]string
	valueOf map[string]string
}

var (
	enumRegistryMu sync.RWMutex
	enumRegistry   = map[reflect.Type]*EnumModel{}
)

// RegisterEnum records the closed value set of a `type X ~string` enum and
// its synthetic schema.Enum definition, memoized per type. Passing no
// values panics, since an enum with no members can never round-trip.
func RegisterEnum[T ~string](values ...T) *EnumModel {
	if len(values) == 0 {
		panic("derive: RegisterEnum requires at least one value")
	}
	var zero T
	t := reflect.TypeOf(zero)

	enumRegistryMu.RLock()
	if em, ok := enumRegistry[t]; ok {
		enumRegistryMu.RUnlock()
		return em
	}
	enumRegistryMu.RUnlock()

	em := &EnumModel{
		Type:    t,
		ClassID: t.Name(),
		wireOf:  make(map[string]string, len(values)),
		valueOf: make(map[string]string, len(values)),
	}
	wire := make([]string, 0, len(values))
	for _, v := range values {
		orig := string(v)
		w := strings.ToLower(orig)
		em.Values = append(em.Values, orig)
		em.wireOf[orig] = w
		em.valueOf[w] = orig
		wire = append(wire, w)
	}
	schema.Register(schema.Enum{ID: em.ClassID, Values: wire})

	enumRegistryMu.Lock()
	enumRegistry[t] = em
	enumRegistryMu.Unlock()
	return em
}

func lookupEnumByType(t reflect.Type) *EnumModel {
	enumRegistryMu.RLock()
	defer enumRegistryMu.RUnlock()
	return enumRegistry[t]
}

// EncodeEnum lowercases v and validates it against T's registered value
// set, the wire form a derive-generated document sends for an enum field.
func EncodeEnum[T ~string](v T) (string, error) {
	var zero T
	t := reflect.TypeOf(zero)
	em := lookupEnumByType(t)
	if em == nil {
		return "", fmt.Errorf("derive: enum %s was never registered with RegisterEnum", t)
	}
	w, ok := em.wireOf[string(v)]
	if !ok {
		return "", fmt.Errorf("derive: %q is not a valid %s value", v, em.ClassID)
	}
	return w, nil
}

// DecodeEnum looks wire up case-sensitively against T's registered lowercase
// values and reconstructs the original-case Go value.
func DecodeEnum[T ~string](wire string) (T, error) {
	var zero T
	t := reflect.TypeOf(zero)
	em := lookupEnumByType(t)
	if em == nil {
		return zero, fmt.Errorf("derive: enum %s was never registered with RegisterEnum", t)
	}
	orig, ok := em.valueOf[wire]
	if !ok {
		return zero, fmt.Errorf("derive: %q is not a valid %s wire value", wire, em.ClassID)
	}
	return T(orig), nil
}
