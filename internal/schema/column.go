package schema

import (
	"strconv"
	"strings"

	GORMSchema "gorm.io/gorm/schema"
)

// Column represents a gorm field backed by a database column
type Column struct {
	*GORMSchema.Field
}

func (c *Column) ColumnName() string {
	return c.DBName
}

// Type returns the explicit column type when the tag sets one, else gorm's
// portable data type plus its size.
func (c *Column) Type() string {
	if t, ok := c.TagSettings["TYPE"]; ok {
		return strings.ToLower(t)
	}
	if c.Size > 0 && c.DataType == GORMSchema.String {
		return string(c.DataType) + "(" + strconv.Itoa(c.Size) + ")"
	}
	return string(c.DataType)
}

func (c *Column) Nullable() bool {
	return !c.PrimaryKey && !c.NotNull
}

// Flags renders the constraints worth showing next to the column.
func (c *Column) Flags() string {
	var flags []string
	if c.PrimaryKey {
		flags = append(flags, "pk")
	}
	if c.NotNull {
		flags = append(flags, "not null")
	}
	if _, ok := c.TagSettings["INDEX"]; ok {
		flags = append(flags, "index")
	}
	return strings.Join(flags, ", ")
}
