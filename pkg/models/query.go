package models

import "sort"

// QueryParameter declares one bindable value of a query definition: its name,
// semantic type, bind position, required-ness and optional textual default.
type QueryParameter struct {
	ID           int       `json:"id"`
	ItemKey      string    `json:"item_key"`
	Name         string    `json:"name"`
	Type         ParamType `json:"type"`
	Order        int       `json:"order"`
	Required     bool      `json:"required"`
	DefaultValue *string   `json:"default_value,omitempty"`
	Description  *string   `json:"description,omitempty"`
}

// QueryDefinition is a stored SQL statement plus its parameter schema,
// looked up by ItemKey. Definitions are read-only snapshots: they are fetched
// fresh per resolution and never mutated after construction.
type QueryDefinition struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	SQLText     string           `json:"sql_text"`
	ItemKey     string           `json:"item_key"`
	Signature   *string          `json:"signature,omitempty"` // opaque, reserved for external authorization
	Parameters  []QueryParameter `json:"parameters,omitempty"`
}

// ByName returns the parameter descriptor with the given name, or false if the
// schema has no such parameter.
func (d *QueryDefinition) ByName(name string) (QueryParameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return QueryParameter{}, false
}

// OrderedParameters returns a copy of the parameter schema sorted ascending by
// declared order, regardless of the order rows came out of storage.
func (d *QueryDefinition) OrderedParameters() []QueryParameter {
	ordered := make([]QueryParameter, len(d.Parameters))
	copy(ordered, d.Parameters)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// Arguments is the caller-supplied mapping from parameter name to raw textual
// value. Insertion order is irrelevant; binding follows the schema's declared
// order only.
type Arguments map[string]string
