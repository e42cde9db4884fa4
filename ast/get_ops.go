package ast

import (
	"encoding/json"
	"fmt"
)

// Indicator names a column of an external resource either by position or by
// header name, mirroring the source's Index/Name tagged union.
type Indicator interface {
	isIndicator()
	MarshalJSON() ([]byte, error)
}

// IndicatorIndex selects a column by zero-based position.
type IndicatorIndex struct{ Index uint64 }

func (IndicatorIndex) isIndicator() {}
func (i IndicatorIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Index uint64 `json:"index"`
	}{"Index", i.Index})
}

// IndicatorName selects a column by its header name.
type IndicatorName struct{ Name string }

func (IndicatorName) isIndicator() {}
func (n IndicatorName) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"@type"`
		Name string `json:"name"`
	}{"Name", n.Name})
}

// Column maps one Indicator of an external resource to a bound Variable.
type Column struct {
	Indicator Indicator
	Variable  string
	TypeOf    string // XSD type hint, empty if unspecified
}

func (c Column) MarshalJSON() ([]byte, error) {
	wire := map[string]interface{}{
		"@type":     "Column",
		"indicator": c.Indicator,
		"variable":  c.Variable,
	}
	if c.TypeOf != "" {
		wire["type"] = c.TypeOf
	}
	return json.Marshal(wire)
}

// Source is the origin of a Get resource: a POST body or a URL, mirroring
// the source's Post/Url tagged union.
type Source interface {
	isSource()
	MarshalJSON() ([]byte, error)
}

// SourcePost supplies the resource inline as a POST body.
type SourcePost struct{ Body string }

func (SourcePost) isSource() {}
func (p SourcePost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"@type"`
		Post string `json:"post"`
	}{"Post", p.Body})
}

// SourceURL fetches the resource from a URL.
type SourceURL struct{ URL string }

func (SourceURL) isSource() {}
func (u SourceURL) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"@type"`
		URL  string `json:"url"`
	}{"Url", u.URL})
}

// FormatType is the encoding of an external resource fetched by Get.
type FormatType string

const FormatCSV FormatType = "csv"

// QueryResource names where a Get's data comes from and how it's encoded.
type QueryResource struct {
	Source  Source
	Format  FormatType
	Options json.RawMessage // format-specific options, e.g. CSV delimiter
}

func (r QueryResource) MarshalJSON() ([]byte, error) {
	wire := map[string]interface{}{
		"@type":  "QueryResource",
		"source": r.Source,
		"format": map[string]string{"@type": "FormatType", "format": string(r.Format)},
	}
	if len(r.Options) > 0 {
		wire["options"] = r.Options
	}
	return json.Marshal(wire)
}

// Get retrieves tabular data from an external resource (CSV over POST or
// URL) and binds each named Column into its Variable.
type Get struct {
	Columns   []Column
	Resource  QueryResource
	HasHeader *bool
}

func (Get) isQuery()          {}
func (Get) QueryType() string { return "Get" }
func (g Get) MarshalJSON() ([]byte, error) {
	wire := map[string]interface{}{
		"@type":    "Get",
		"columns":  g.Columns,
		"resource": g.Resource,
	}
	if g.HasHeader != nil {
		wire["has_header"] = *g.HasHeader
	}
	return json.Marshal(wire)
}

// DecodeIndicator decodes an Indicator tagged union from its JSON-LD wire form.
func DecodeIndicator(data []byte) (Indicator, error) {
	var head struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: decode indicator head: %w", err)
	}
	switch head.Type {
	case "Index":
		var v struct {
			Index uint64 `json:"index"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return IndicatorIndex{Index: v.Index}, nil
	case "Name":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return IndicatorName{Name: v.Name}, nil
	default:
		return nil, fmt.Errorf("ast: unrecognized indicator @type %q", head.Type)
	}
}
