package identity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type thing struct {
	Name string
}

func TestNewEntityIDIsUniqueAndNonEmpty(t *testing.T) {
	a := NewEntityID[thing]()
	b := NewEntityID[thing]()
	require.NotEmpty(t, a.Value)
	require.NotEqual(t, a.Value, b.Value)
}

func TestVersionedEntityIDString(t *testing.T) {
	v := VersionedEntityIDFor[thing]{
		ID:     ServerIDForValue[thing]("thing/1"),
		Commit: CommitID{Value: "abc123"},
	}
	require.Equal(t, "thing/1@abc123", v.String())
}

type fakeResolver struct {
	calls int
	fail  bool
}

func (f *fakeResolver) Resolve(id ServerIDFor[thing]) (thing, error) {
	f.calls++
	if f.fail {
		return thing{}, errors.New("boom")
	}
	return thing{Name: "resolved-" + id.Value}, nil
}

func TestTdbLazyResolvesOnceOnSuccess(t *testing.T) {
	r := &fakeResolver{}
	lazy := NewLazy(ServerIDForValue[thing]("thing/1"), r)

	v1, err := lazy.Get()
	require.NoError(t, err)
	require.Equal(t, "resolved-thing/1", v1.Name)

	v2, err := lazy.Get()
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, r.calls, "second Get must not re-resolve")
}

func TestTdbLazyRetriesAfterFailure(t *testing.T) {
	r := &fakeResolver{fail: true}
	lazy := NewLazy(ServerIDForValue[thing]("thing/1"), r)

	_, err := lazy.Get()
	require.Error(t, err)
	require.Equal(t, 1, r.calls)

	r.fail = false
	v, err := lazy.Get()
	require.NoError(t, err)
	require.Equal(t, "resolved-thing/1", v.Name)
	require.Equal(t, 2, r.calls, "a failed Get must be retried, not cached")
}

func TestTdbLazyIDDoesNotForceResolution(t *testing.T) {
	r := &fakeResolver{}
	lazy := NewLazy(ServerIDForValue[thing]("thing/7"), r)
	require.Equal(t, "thing/7", lazy.ID().String())
	require.Equal(t, 0, r.calls)
}

func TestErrorWrapsResolverFailure(t *testing.T) {
	r := &fakeResolver{fail: true}
	lazy := NewLazy(ServerIDForValue[thing]("x"), r)
	_, err := lazy.Get()
	require.Error(t, err)
	require.Contains(t, fmt.Sprint(err), "identity: resolve")
}
