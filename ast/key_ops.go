package ast

import "encoding/json"

// LexicalKeyQuery computes the URI a LexicalKey schema strategy would have
// minted for KeyList under Base, binding it into URI — usable to look up an
// instance by its deterministic key without a round trip.
type LexicalKeyQuery struct {
	Base    Value
	KeyList []Value
	URI     Value
}

func (LexicalKeyQuery) isQuery()          {}
func (LexicalKeyQuery) QueryType() string { return "LexicalKey" }
func (k LexicalKeyQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":    "LexicalKey",
		"base":     k.Base,
		"key_list": k.KeyList,
		"uri":      k.URI,
	})
}

// HashKeyQuery computes the URI a HashKey schema strategy would have minted.
type HashKeyQuery struct {
	Base    Value
	KeyList []Value
	URI     Value
}

func (HashKeyQuery) isQuery()          {}
func (HashKeyQuery) QueryType() string { return "HashKey" }
func (k HashKeyQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":    "HashKey",
		"base":     k.Base,
		"key_list": k.KeyList,
		"uri":      k.URI,
	})
}

// RandomKeyQuery mints a fresh random URI under Base, binding it into URI.
type RandomKeyQuery struct {
	Base Value
	URI  Value
}

func (RandomKeyQuery) isQuery()          {}
func (RandomKeyQuery) QueryType() string { return "RandomKey" }
func (k RandomKeyQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"@type"`
		Base Value  `json:"base"`
		URI  Value  `json:"uri"`
	}{"RandomKey", k.Base, k.URI})
}

// Size reports the resource's size in bytes, binding it into Result.
type Size struct {
	Resource string
	Result   Value
}

func (Size) isQuery()          {}
func (Size) QueryType() string { return "Size" }
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"@type"`
		Resource string `json:"resource"`
		Result   Value  `json:"size"`
	}{"Size", s.Resource, s.Result})
}

// TripleCount binds Result to the number of edges in Resource.
type TripleCount struct {
	Resource string
	Result   Value
}

func (TripleCount) isQuery()          {}
func (TripleCount) QueryType() string { return "TripleCount" }
func (t TripleCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"@type"`
		Resource string `json:"resource"`
		Result   Value  `json:"count"`
	}{"TripleCount", t.Resource, t.Result})
}

// Call references a named, parametric query by Name, binding Arguments
// positionally. There is no server-side persistence for named queries in
// this wire protocol — Call only has meaning to a client that resolves it
// itself (see the query package's Define/Call pair) before a request is
// ever sent, or to a downstream consumer that keeps its own registry.
type Call struct {
	Name      string
	Arguments []Value
}

func (Call) isQuery()          {}
func (Call) QueryType() string { return "Call" }
func (c Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string  `json:"@type"`
		Name      string  `json:"name"`
		Arguments []Value `json:"arguments"`
	}{"Call", c.Name, c.Arguments})
}
