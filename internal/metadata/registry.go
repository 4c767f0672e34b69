// Package metadata describes entity fields for the presentation layer, so list
// views and forms can be rendered without hard-coding every column.
package metadata

import (
	"sort"
	"sync"
)

// EntityType defines the category of the entity.
type EntityType string

const (
	TypeCatalog  EntityType = "catalog"
	TypeDocument EntityType = "document"
	TypeLedger   EntityType = "ledger"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeReference FieldType = "reference"
	TypeEnum      FieldType = "enum"
	TypeMoney     FieldType = "money"
)

// EntityDef describes a business entity.
type EntityDef struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	Type       EntityType     `json:"type"`
	Fields     []FieldDef     `json:"fields"`
	TableParts []TablePartDef `json:"tableParts,omitempty"`
}

// TablePartDef describes a nested collection (lines).
type TablePartDef struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	Columns []FieldDef `json:"columns"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name          string    `json:"name"`
	Label         string    `json:"label,omitempty"`
	Type          FieldType `json:"type"`
	ReferenceType string    `json:"referenceType,omitempty"` // e.g. "warehouse"
	ReadOnly      bool      `json:"readOnly,omitempty"`
	Scale         int       `json:"scale,omitempty"`
	Options       []string  `json:"options,omitempty"`
}

// Field returns the field with the given JSON name.
func (d EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// WithOptions turns a string field into an enum with the given values.
// Unknown field names are ignored.
func (d EntityDef) WithOptions(field string, options ...string) EntityDef {
	fields := make([]FieldDef, len(d.Fields))
	copy(fields, d.Fields)
	for i := range fields {
		if fields[i].Name == field {
			fields[i].Type = TypeEnum
			fields[i].Options = options
		}
	}
	d.Fields = fields
	return d
}

// WithReference sets the entity a reference field points at when the field
// name alone does not say it.
func (d EntityDef) WithReference(field, target string) EntityDef {
	fields := make([]FieldDef, len(d.Fields))
	copy(fields, d.Fields)
	for i := range fields {
		if fields[i].Name == field && fields[i].Type == TypeReference {
			fields[i].ReferenceType = target
		}
	}
	d.Fields = fields
	return d
}

// ReadOnly marks fields the user cannot edit (derived or service-maintained).
func (d EntityDef) ReadOnly(names ...string) EntityDef {
	fields := make([]FieldDef, len(d.Fields))
	copy(fields, d.Fields)
	for i := range fields {
		for _, n := range names {
			if fields[i].Name == n {
				fields[i].ReadOnly = true
			}
		}
	}
	d.Fields = fields
	return d
}

// Registry stores entity definitions.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]EntityDef
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
	}
}

func (r *Registry) Register(def EntityDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[def.Name] = def
}

func (r *Registry) Get(name string) (EntityDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entities[name]
	return d, ok
}

// List returns all definitions ordered by name.
func (r *Registry) List() []EntityDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]EntityDef, 0, len(r.entities))
	for _, def := range r.entities {
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
