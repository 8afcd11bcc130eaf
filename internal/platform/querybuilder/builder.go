// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering placeholders as $1, $2, ...
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// argList collects bound values and hands out the matching placeholders.
type argList struct {
	values []any
}

func (a *argList) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// bindExpr replaces each ? in expr with the next placeholder. A ? without a
// matching value is kept as is.
func (a *argList) bindExpr(expr string, exprArgs []any) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(a.bind(exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

type Condition interface {
	render(args *argList) string
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(args *argList) string {
	return c.column + " = " + args.bind(c.value)
}

type isNullCondition string

func IsNull(column string) Condition {
	return isNullCondition(column)
}

func (c isNullCondition) render(_ *argList) string {
	return string(c) + " IS NULL"
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw SQL fragment; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(args *argList) string {
	return args.bindExpr(c.expr, c.args)
}

func renderWhere(buf *strings.Builder, conditions []Condition, args *argList) {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.render(args))
	}
}

func renderList(buf *strings.Builder, keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	buf.WriteString(keyword)
	buf.WriteString(strings.Join(parts, ", "))
}

type SelectBuilder struct {
	columns   []string
	table     string
	joins     []string
	where     []Condition
	groupBy   []string
	orderBy   []string
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join appends an inner join, e.g. Join("users u ON u.id = b.user_id").
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, "JOIN "+strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) LeftJoin(clause string) *SelectBuilder {
	b.joins = append(b.joins, "LEFT JOIN "+strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var (
		buf  strings.Builder
		args argList
	)
	renderList(&buf, "SELECT ", b.columns)
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	for _, join := range b.joins {
		buf.WriteString(" ")
		buf.WriteString(join)
	}
	renderWhere(&buf, b.where, &args)
	renderList(&buf, " GROUP BY ", b.groupBy)
	renderList(&buf, " ORDER BY ", b.orderBy)
	if b.forUpdate {
		buf.WriteString(" FOR UPDATE")
	}

	return buf.String(), args.values, nil
}

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	returning []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var (
		buf  strings.Builder
		args argList
	)
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		placeholders := make([]string, 0, len(row))
		for _, value := range row {
			placeholders = append(placeholders, args.bind(value))
		}
		buf.WriteString("(")
		buf.WriteString(strings.Join(placeholders, ", "))
		buf.WriteString(")")
	}
	renderList(&buf, " RETURNING ", b.returning)

	return buf.String(), args.values, nil
}

type setClause struct {
	column string
	value  any
	expr   *exprCondition
}

type UpdateBuilder struct {
	table     string
	sets      []setClause
	from      *exprCondition
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression such as NOW() or a column of a FROM source.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: &exprCondition{expr: expr, args: args}})
	return b
}

// From adds a FROM source for joined bulk updates. Each ? in expr is bound
// to the next arg.
func (b *UpdateBuilder) From(expr string, args ...any) *UpdateBuilder {
	b.from = &exprCondition{expr: expr, args: args}
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var (
		buf  strings.Builder
		args argList
	)
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)

	assignments := make([]string, 0, len(b.sets))
	for _, s := range b.sets {
		if s.expr != nil {
			assignments = append(assignments, s.column+" = "+s.expr.render(&args))
			continue
		}
		assignments = append(assignments, s.column+" = "+args.bind(s.value))
	}
	renderList(&buf, " SET ", assignments)

	if b.from != nil {
		buf.WriteString(" FROM ")
		buf.WriteString(b.from.render(&args))
	}
	renderWhere(&buf, b.where, &args)
	renderList(&buf, " RETURNING ", b.returning)

	return buf.String(), args.values, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete requires at least one condition")
	}

	var (
		buf  strings.Builder
		args argList
	)
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	renderWhere(&buf, b.where, &args)

	return buf.String(), args.values, nil
}
