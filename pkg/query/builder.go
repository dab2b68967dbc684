// Package query builds parameterized SQL for the dynamically materialized
// collections. Statements are rendered with deterministic column order so
// they can be asserted in tests.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridbase/backend/pkg/constants"
)

// QueryType represents the type of SQL query
type QueryType string

const (
	QueryTypeSelect QueryType = "SELECT"
	QueryTypeInsert QueryType = "INSERT"
	QueryTypeUpdate QueryType = "UPDATE"
	QueryTypeDelete QueryType = "DELETE"
)

// QueryResult represents the built SQL query and parameters
type QueryResult struct {
	SQL    string
	Params []interface{}
}

// Builder is a fluent SQL query builder
type Builder struct {
	queryType    QueryType
	table        string
	fields       []string
	whereClauses []string
	params       []interface{}
	orderBy      string
	limit        *int
	offset       *int
	values       map[string]interface{}
}

// From creates a new SELECT query builder
func From(table string) *Builder {
	return &Builder{
		queryType:    QueryTypeSelect,
		table:        table,
		fields:       make([]string, 0),
		whereClauses: make([]string, 0),
		params:       make([]interface{}, 0),
	}
}

// Insert creates a new INSERT query builder
func Insert(table string, data map[string]interface{}) *Builder {
	return &Builder{
		queryType: QueryTypeInsert,
		table:     table,
		values:    data,
		params:    make([]interface{}, 0),
	}
}

// Update creates a new UPDATE query builder
func Update(table string) *Builder {
	return &Builder{
		queryType:    QueryTypeUpdate,
		table:        table,
		values:       make(map[string]interface{}),
		whereClauses: make([]string, 0),
		params:       make([]interface{}, 0),
	}
}

// Delete creates a new DELETE query builder
func Delete(table string) *Builder {
	return &Builder{
		queryType:    QueryTypeDelete,
		table:        table,
		whereClauses: make([]string, 0),
		params:       make([]interface{}, 0),
	}
}

// Select specifies which fields to select
func (b *Builder) Select(fields []string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}
	for _, field := range fields {
		if field == "*" {
			b.fields = append(b.fields, "*")
			continue
		}
		b.fields = append(b.fields, fmt.Sprintf("`%s`", field))
	}
	return b
}

// Where adds a WHERE condition, joined with AND
func (b *Builder) Where(condition string, value ...interface{}) *Builder {
	b.whereClauses = append(b.whereClauses, condition)
	if len(value) > 0 {
		b.params = append(b.params, value...)
	}
	return b
}

// WhereIn adds a WHERE column IN (...) condition
func (b *Builder) WhereIn(column string, values []interface{}) *Builder {
	if len(values) == 0 {
		return b
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	b.whereClauses = append(b.whereClauses, fmt.Sprintf("`%s` IN (%s)", column, placeholders))
	b.params = append(b.params, values...)
	return b
}

// ExcludeTrashed filters out soft-deleted records
func (b *Builder) ExcludeTrashed() *Builder {
	return b.Where(fmt.Sprintf("`%s` = 0", constants.FieldTrashed))
}

// Set sets values for UPDATE query
func (b *Builder) Set(data map[string]interface{}) *Builder {
	if b.queryType != QueryTypeUpdate {
		return b
	}
	b.values = data
	return b
}

// OrderBy adds ORDER BY clause
func (b *Builder) OrderBy(field string, direction string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}
	b.orderBy = fmt.Sprintf("ORDER BY `%s` %s", field, direction)
	return b
}

// Limit adds LIMIT clause
func (b *Builder) Limit(n int) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}
	b.limit = &n
	return b
}

// Offset adds OFFSET clause; only effective together with Limit
func (b *Builder) Offset(n int) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}
	b.offset = &n
	return b
}

// Build constructs the final SQL query
func (b *Builder) Build() QueryResult {
	var sql string
	var params []interface{}

	switch b.queryType {
	case QueryTypeSelect:
		sql = b.buildSelect()
		params = b.params
	case QueryTypeInsert:
		sql, params = b.buildInsert()
	case QueryTypeUpdate:
		sql, params = b.buildUpdate()
	case QueryTypeDelete:
		sql = b.buildDelete()
		params = b.params
	}

	return QueryResult{SQL: sql, Params: params}
}

func (b *Builder) buildSelect() string {
	var parts []string

	fields := "*"
	if len(b.fields) > 0 {
		fields = strings.Join(b.fields, ", ")
	}
	parts = append(parts, fmt.Sprintf("SELECT %s FROM `%s`", fields, b.table))

	if len(b.whereClauses) > 0 {
		parts = append(parts, fmt.Sprintf("WHERE %s", strings.Join(b.whereClauses, " AND ")))
	}
	if b.orderBy != "" {
		parts = append(parts, b.orderBy)
	}
	if b.limit != nil {
		parts = append(parts, fmt.Sprintf("LIMIT %d", *b.limit))
		if b.offset != nil {
			parts = append(parts, fmt.Sprintf("OFFSET %d", *b.offset))
		}
	}

	return strings.Join(parts, " ")
}

func sortedColumns(values map[string]interface{}) []string {
	cols := make([]string, 0, len(values))
	for key := range values {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}

func (b *Builder) buildInsert() (string, []interface{}) {
	var cols []string
	var placeholders []string
	var params []interface{}

	for _, key := range sortedColumns(b.values) {
		cols = append(cols, fmt.Sprintf("`%s`", key))
		placeholders = append(placeholders, "?")
		params = append(params, b.values[key])
	}

	sql := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		b.table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "))

	return sql, params
}

func (b *Builder) buildUpdate() (string, []interface{}) {
	var setClauses []string
	var params []interface{}

	for _, key := range sortedColumns(b.values) {
		setClauses = append(setClauses, fmt.Sprintf("`%s` = ?", key))
		params = append(params, b.values[key])
	}

	sql := fmt.Sprintf("UPDATE `%s` SET %s", b.table, strings.Join(setClauses, ", "))

	if len(b.whereClauses) > 0 {
		sql += fmt.Sprintf(" WHERE %s", strings.Join(b.whereClauses, " AND "))
		params = append(params, b.params...)
	}

	return sql, params
}

func (b *Builder) buildDelete() string {
	sql := fmt.Sprintf("DELETE FROM `%s`", b.table)
	if len(b.whereClauses) > 0 {
		sql += fmt.Sprintf(" WHERE %s", strings.Join(b.whereClauses, " AND "))
	}
	return sql
}
