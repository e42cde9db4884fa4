package ast

import "encoding/json"

// Trim binds Trimmed to Untrimmed with leading/trailing whitespace removed.
type Trim struct {
	Untrimmed, Trimmed Value
}

func (Trim) isQuery()          {}
func (Trim) QueryType() string { return "Trim" }
func (t Trim) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"@type"`
		Untrimmed Value  `json:"untrimmed"`
		Trimmed   Value  `json:"trimmed"`
	}{"Trim", t.Untrimmed, t.Trimmed})
}

// Lower binds Lower to the lowercase form of Mixed.
type Lower struct {
	Mixed, Lower Value
}

func (Lower) isQuery()          {}
func (Lower) QueryType() string { return "Lower" }
func (l Lower) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Mixed Value  `json:"mixed"`
		Lower Value  `json:"lower"`
	}{"Lower", l.Mixed, l.Lower})
}

// Upper binds Upper to the uppercase form of Mixed.
type Upper struct {
	Mixed, Upper Value
}

func (Upper) isQuery()          {}
func (Upper) QueryType() string { return "Upper" }
func (u Upper) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Mixed Value  `json:"mixed"`
		Upper Value  `json:"upper"`
	}{"Upper", u.Mixed, u.Upper})
}

// Pad binds Result to String with Char repeated Times times appended.
type Pad struct {
	String, Char, Times, Result Value
}

func (Pad) isQuery()          {}
func (Pad) QueryType() string { return "Pad" }
func (p Pad) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":  "Pad",
		"string": p.String,
		"char":   p.Char,
		"times":  p.Times,
		"result": p.Result,
	})
}

// Split binds List to String broken apart at each occurrence of Pattern.
type Split struct {
	String, Pattern, List Value
}

func (Split) isQuery()          {}
func (Split) QueryType() string { return "Split" }
func (s Split) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"@type"`
		String  Value  `json:"string"`
		Pattern Value  `json:"pattern"`
		List    Value  `json:"list"`
	}{"Split", s.String, s.Pattern, s.List})
}

// Join binds Result to the elements of List concatenated with Separator between them.
type Join struct {
	List, Separator, Result Value
}

func (Join) isQuery()          {}
func (Join) QueryType() string { return "Join" }
func (j Join) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":     "Join",
		"list":      j.List,
		"separator": j.Separator,
		"result":    j.Result,
	})
}

// Concatenate binds Result to the elements of List concatenated with no separator.
type Concatenate struct {
	List, Result Value
}

func (Concatenate) isQuery()          {}
func (Concatenate) QueryType() string { return "Concatenate" }
func (c Concatenate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"@type"`
		List   Value  `json:"list"`
		Result Value  `json:"result"`
	}{"Concatenate", c.List, c.Result})
}

// Regexp tests String against Pattern (PCRE syntax), optionally binding Result
// to the list of captured groups.
type Regexp struct {
	Pattern, String, Result Value
}

func (Regexp) isQuery()          {}
func (Regexp) QueryType() string { return "Regexp" }
func (r Regexp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":   "Regexp",
		"pattern": r.Pattern,
		"string":  r.String,
		"result":  r.Result,
	})
}

// Like binds Similarity to a -1..1 edit-distance score between Left and Right.
type Like struct {
	Left, Right, Similarity Value
}

func (Like) isQuery()          {}
func (Like) QueryType() string { return "Like" }
func (l Like) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"@type"`
		Left       Value  `json:"left"`
		Right      Value  `json:"right"`
		Similarity Value  `json:"similarity"`
	}{"Like", l.Left, l.Right, l.Similarity})
}
