package ast

import (
	"encoding/json"
	"fmt"
)

// PathPattern is the path-algebra sub-language used by Path queries:
// predicates, sequencing, alternation, inversion, and Kleene-style
// repetition with bounds.
type PathPattern interface {
	isPathPattern()
	MarshalJSON() ([]byte, error)
}

// PathPredicate matches a single edge labelled with the given predicate IRI.
// An empty Predicate matches any edge.
type PathPredicate struct {
	Predicate string
}

func (PathPredicate) isPathPattern() {}
func (p PathPredicate) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"@type":     "PathPredicate",
		"predicate": p.Predicate,
	})
}

// PathInverse matches Inner traversed in the reverse direction.
type PathInverse struct {
	Inner PathPattern
}

func (PathInverse) isPathPattern() {}
func (p PathInverse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"@type"`
		Inner PathPattern `json:"inner"`
	}{"PathInverse", p.Inner})
}

// PathSequence matches each element of Steps in order, end-to-end.
type PathSequence struct {
	Steps []PathPattern
}

func (PathSequence) isPathPattern() {}
func (p PathSequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string        `json:"@type"`
		Steps []PathPattern `json:"sequence"`
	}{"PathSequence", p.Steps})
}

// PathOr matches any one of Alternatives.
type PathOr struct {
	Alternatives []PathPattern
}

func (PathOr) isPathPattern() {}
func (p PathOr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string        `json:"@type"`
		Alternatives []PathPattern `json:"or"`
	}{"PathOr", p.Alternatives})
}

// PathPlus matches Inner one or more times.
type PathPlus struct {
	Inner PathPattern
}

func (PathPlus) isPathPattern() {}
func (p PathPlus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"@type"`
		Inner PathPattern `json:"plus"`
	}{"PathPlus", p.Inner})
}

// PathStar matches Inner zero or more times.
type PathStar struct {
	Inner PathPattern
}

func (PathStar) isPathPattern() {}
func (p PathStar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"@type"`
		Inner PathPattern `json:"star"`
	}{"PathStar", p.Inner})
}

// PathTimes matches Inner between Min and Max times, inclusive.
type PathTimes struct {
	Inner    PathPattern
	Min, Max uint64
}

func (PathTimes) isPathPattern() {}
func (p PathTimes) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type": "PathTimes",
		"from":  p.Min,
		"to":    p.Max,
		"times": p.Inner,
	})
}

// Seq, OrPath, Plus, Star, and Times are fluent constructors for PathPattern.

func Seq(steps ...PathPattern) PathSequence     { return PathSequence{Steps: steps} }
func OrPath(alts ...PathPattern) PathOr         { return PathOr{Alternatives: alts} }
func Plus(inner PathPattern) PathPlus           { return PathPlus{Inner: inner} }
func Star(inner PathPattern) PathStar           { return PathStar{Inner: inner} }
func Times(inner PathPattern, min, max uint64) PathTimes {
	return PathTimes{Inner: inner, Min: min, Max: max}
}
func Pred(iri string) PathPredicate { return PathPredicate{Predicate: iri} }
func Inverse(inner PathPattern) PathInverse { return PathInverse{Inner: inner} }

// DecodePathPattern decodes a PathPattern from its JSON-LD wire form,
// switching on "@type" the same way DecodeQuery does for queries.
func DecodePathPattern(data []byte) (PathPattern, error) {
	var head struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: decode path pattern head: %w", err)
	}
	switch head.Type {
	case "PathPredicate":
		var wire struct {
			Predicate string `json:"predicate"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return PathPredicate{Predicate: wire.Predicate}, nil
	case "PathInverse":
		var wire struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		inner, err := DecodePathPattern(wire.Inner)
		if err != nil {
			return nil, err
		}
		return PathInverse{Inner: inner}, nil
	case "PathSequence":
		var wire struct {
			Steps []json.RawMessage `json:"sequence"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		steps := make([]PathPattern, len(wire.Steps))
		for i, raw := range wire.Steps {
			p, err := DecodePathPattern(raw)
			if err != nil {
				return nil, err
			}
			steps[i] = p
		}
		return PathSequence{Steps: steps}, nil
	case "PathOr":
		var wire struct {
			Alternatives []json.RawMessage `json:"or"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		alts := make([]PathPattern, len(wire.Alternatives))
		for i, raw := range wire.Alternatives {
			p, err := DecodePathPattern(raw)
			if err != nil {
				return nil, err
			}
			alts[i] = p
		}
		return PathOr{Alternatives: alts}, nil
	case "PathPlus":
		var wire struct {
			Inner json.RawMessage `json:"plus"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		inner, err := DecodePathPattern(wire.Inner)
		if err != nil {
			return nil, err
		}
		return PathPlus{Inner: inner}, nil
	case "PathStar":
		var wire struct {
			Inner json.RawMessage `json:"star"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		inner, err := DecodePathPattern(wire.Inner)
		if err != nil {
			return nil, err
		}
		return PathStar{Inner: inner}, nil
	case "PathTimes":
		var wire struct {
			From  uint64          `json:"from"`
			To    uint64          `json:"to"`
			Times json.RawMessage `json:"times"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		inner, err := DecodePathPattern(wire.Times)
		if err != nil {
			return nil, err
		}
		return PathTimes{Inner: inner, Min: wire.From, Max: wire.To}, nil
	default:
		return nil, fmt.Errorf("ast: unrecognized path pattern @type %q", head.Type)
	}
}
