package schema

import (
	"fmt"
	"sort"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Table represents a parsed gorm model
type Table struct {
	*GORMSchema.Schema
	Columns []*Column
}

func (t *Table) TableName() string {
	return t.Table
}

// ForeignKeys lists "column -> table.column" for every constraint stored on
// this table, including ones declared by a has-many on the parent model. The
// parent must have been parsed with the same cache.
func (t *Table) ForeignKeys() []string {
	var out []string
	for _, rel := range t.Relationships.Relations {
		c := rel.ParseConstraint()
		if c == nil || c.Schema != t.Schema {
			continue
		}
		for i, fk := range c.ForeignKeys {
			out = append(out, fmt.Sprintf("%s -> %s.%s", fk.DBName, c.ReferenceSchema.Table, c.References[i].DBName))
		}
	}
	sort.Strings(out)
	return out
}

// FromModel parses a gorm model into its table description. Only fields
// that map to a column are kept.
func FromModel(model interface{}, cache *sync.Map) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, cache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parse model %T: %w", model, err)
	}

	columns := make([]*Column, 0, len(modelSchema.DBNames))
	for _, name := range modelSchema.DBNames {
		columns = append(columns, &Column{Field: modelSchema.FieldsByDBName[name]})
	}
	return &Table{Schema: modelSchema, Columns: columns}, nil
}

// Describe parses every model of a registry, ordered by table name.
func Describe(models map[string]interface{}) ([]*Table, error) {
	cache := &sync.Map{}
	tables := make([]*Table, 0, len(models))
	for _, model := range models {
		t, err := FromModel(model, cache)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Table < tables[j].Table })
	return tables, nil
}
