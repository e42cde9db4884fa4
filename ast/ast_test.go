package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataValueMarshalUnmarshal(t *testing.T) {
	v := Int(42)
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var wire struct {
		Type string `json:"@type"`
		Data struct {
			Type  string `json:"@type"`
			Value string `json:"@value"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &wire))
	require.Equal(t, "Value", wire.Type)
	require.Equal(t, string(XSDInteger), wire.Data.Type)
	require.Equal(t, "42", wire.Data.Value)

	var back DataValue
	require.NoError(t, back.UnmarshalJSON(b))
	require.Equal(t, XSDInteger, back.Kind)
	require.Equal(t, "42", back.Raw)
}

func TestTripleMarshalHasDiscriminant(t *testing.T) {
	tr := Triple{Subject: Node("a"), Predicate: Node("knows"), Object: Node("b")}
	b, err := json.Marshal(tr)
	require.NoError(t, err)

	var head struct {
		Type string `json:"@type"`
	}
	require.NoError(t, json.Unmarshal(b, &head))
	require.Equal(t, "Triple", head.Type)
}

func TestDecodeQueryRoundTripsTriple(t *testing.T) {
	tr := Triple{Subject: Node("a"), Predicate: Node("knows"), Object: Node("b")}
	b, err := json.Marshal(tr)
	require.NoError(t, err)

	q, err := DecodeQuery(b)
	require.NoError(t, err)
	decoded, ok := q.(Triple)
	require.True(t, ok)
	require.Equal(t, "Triple", decoded.QueryType())
}

func TestDecodeQueryUnknownType(t *testing.T) {
	_, err := DecodeQuery([]byte(`{"@type":"NotARealQuery"}`))
	require.Error(t, err)
}

func TestDecodeQueryTrue(t *testing.T) {
	b, err := json.Marshal(True{})
	require.NoError(t, err)
	q, err := DecodeQuery(b)
	require.NoError(t, err)
	require.Equal(t, "True", q.QueryType())
}

func TestAndOrNestQueries(t *testing.T) {
	q := And{Queries: []Query{True{}, Or{Queries: []Query{True{}, True{}}}}}
	b, err := json.Marshal(q)
	require.NoError(t, err)
	require.Contains(t, string(b), `"@type":"And"`)
}
