package database

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveSchools restricts a schools query to rows that have not been soft-deleted.
func ActiveSchools(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// Paginate applies limit/offset.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit).Offset(offset)
	}
}

// WithStatus filters by status unless status is empty or "all".
func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" || status == "all" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

// ContainsFold matches rows where any of the columns contains term, ignoring case.
func ContainsFold(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// JSONArrayContains is an exact-element containment test on a JSON array column.
type JSONArrayContains struct {
	Column string
	Value  string
}

func (e JSONArrayContains) Build(builder clause.Builder) {
	stmt, ok := builder.(*gorm.Statement)
	if !ok {
		return
	}
	switch stmt.Dialector.Name() {
	case "postgres":
		encoded, _ := json.Marshal([]string{e.Value})
		builder.WriteQuoted(e.Column)
		builder.WriteString(" @> ")
		builder.AddVar(builder, string(encoded))
		builder.WriteString("::jsonb")
	default:
		builder.WriteString("EXISTS (SELECT 1 FROM json_each(")
		builder.WriteQuoted(e.Column)
		builder.WriteString(") WHERE json_each.value = ")
		builder.AddVar(builder, e.Value)
		builder.WriteString(")")
	}
}
