package change

import (
	"strings"

	"github.com/tdbgo/tdbgo/derive"
)

// idListener adapts a plain func(id string) callback into a ChangeListener
// filtered to one operation ("insert", "update", or "delete") and, when T
// is registered with derive, to documents of T's class. OnChange has a
// value receiver so Subscribe's weak-pointer contract (see Subscribe's doc
// comment) is met the same way any other listener meets it.
type idListener[T any] struct {
	op          string
	classPrefix string
	fn          func(id string)
}

func (l idListener[T]) OnChange(c DocumentChange) {
	if c.Operation != l.op {
		return
	}
	if l.classPrefix != "" && !strings.HasPrefix(c.DocumentID, l.classPrefix) {
		return
	}
	l.fn(c.DocumentID)
}

func subscribeID[T any](r *Router, resourcePath, op string, fn func(id string)) *idListener[T] {
	prefix := ""
	if m := derive.Lookup[T](); m != nil {
		prefix = m.ClassID + "/"
	}
	l := &idListener[T]{op: op, classPrefix: prefix, fn: fn}
	Subscribe[idListener[T]](r, resourcePath, l)
	return l
}

// OnAddedID registers fn to run with the id of every newly inserted
// instance of T observed on resourcePath. The returned listener must be
// kept reachable by the caller for as long as it wants callbacks, per
// Subscribe's weak-reference contract; letting it go out of scope silently
// unregisters it on the next dispatch. A no-op, like Subscribe itself, when
// SSE streaming is not enabled.
func OnAddedID[T any](r *Router, resourcePath string, fn func(id string)) *idListener[T] {
	return subscribeID[T](r, resourcePath, "insert", fn)
}

// OnDeletedID is OnAddedID for delete events.
func OnDeletedID[T any](r *Router, resourcePath string, fn func(id string)) *idListener[T] {
	return subscribeID[T](r, resourcePath, "delete", fn)
}

// OnUpdatedID is OnAddedID for update events.
func OnUpdatedID[T any](r *Router, resourcePath string, fn func(id string)) *idListener[T] {
	return subscribeID[T](r, resourcePath, "update", fn)
}
