package ast

import "encoding/json"

// GroupBy partitions Query's solutions by the variables named in By,
// binding Template once per group and collecting the groups into Grouped.
type GroupBy struct {
	By       []string
	Template Value
	Grouped  Value
	Query    Query
}

func (GroupBy) isQuery()          {}
func (GroupBy) QueryType() string { return "GroupBy" }
func (g GroupBy) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":    "GroupBy",
		"group_by": g.By,
		"template": g.Template,
		"grouped":  g.Grouped,
		"query":    g.Query,
	})
}
