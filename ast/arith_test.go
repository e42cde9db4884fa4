package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithLeafMarshalsAsBareValue(t *testing.T) {
	b, err := json.Marshal(Val(Int(3)))
	require.NoError(t, err)

	var back DataValue
	require.NoError(t, back.UnmarshalJSON(b))
	require.Equal(t, "3", back.Raw)
}

func TestAddMarshalsPlusDiscriminant(t *testing.T) {
	expr := Add(Val(Int(1)), Val(Int(2)))
	b, err := json.Marshal(expr)
	require.NoError(t, err)

	var wire struct {
		Type  string          `json:"@type"`
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
	}
	require.NoError(t, json.Unmarshal(b, &wire))
	require.Equal(t, "Plus", wire.Type)
	require.NotEmpty(t, wire.Left)
	require.NotEmpty(t, wire.Right)
}

func TestBinaryOpDiscriminants(t *testing.T) {
	cases := []struct {
		build func(l, r ArithmeticExpression) ArithmeticExpression
		want  string
	}{
		{Add, "Plus"},
		{Sub, "Minus"},
		{Mul, "Times"},
		{Div, "Divide"},
		{Pow, "Exp"},
	}
	for _, c := range cases {
		b, err := json.Marshal(c.build(Val(Int(1)), Val(Int(2))))
		require.NoError(t, err)
		require.Contains(t, string(b), `"@type":"`+c.want+`"`)
	}
}

func TestFloorWrapsInnerAsArgument(t *testing.T) {
	expr := Floor{Inner: Val(Int(7))}
	b, err := json.Marshal(expr)
	require.NoError(t, err)

	var wire struct {
		Type     string          `json:"@type"`
		Argument json.RawMessage `json:"argument"`
	}
	require.NoError(t, json.Unmarshal(b, &wire))
	require.Equal(t, "Floor", wire.Type)
	require.NotEmpty(t, wire.Argument)
}

func TestNestedArithmeticExpressionMarshals(t *testing.T) {
	expr := Floor{Inner: Div(Add(Val(Int(1)), Val(Int(2))), Val(Int(3)))}
	b, err := json.Marshal(expr)
	require.NoError(t, err)
	require.Contains(t, string(b), `"@type":"Floor"`)
	require.Contains(t, string(b), `"@type":"Divide"`)
	require.Contains(t, string(b), `"@type":"Plus"`)
}
