package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// predicate is one SQL condition with the arguments for its placeholders
type predicate struct {
	sql  string
	args []any
}

// predicateSet accumulates SQL predicates joined with AND together with their
// positional arguments. Clauses are fixed SQL fragments using "?" placeholders;
// values only ever travel as arguments.
type predicateSet struct {
	items []predicate
}

// add appends a clause and its arguments
func (p *predicateSet) add(clause string, args ...any) *predicateSet {
	p.items = append(p.items, predicate{sql: clause, args: args})
	return p
}

// addIf appends the clause only when cond holds
func (p *predicateSet) addIf(cond bool, clause string, args ...any) *predicateSet {
	if cond {
		p.add(clause, args...)
	}
	return p
}

// Args returns the arguments of all clauses in placeholder order
func (p *predicateSet) Args() []any {
	var args []any
	for _, it := range p.items {
		args = append(args, it.args...)
	}
	return args
}

func (p *predicateSet) joined() string {
	parts := make([]string, len(p.items))
	for i, it := range p.items {
		parts[i] = it.sql
	}
	return strings.Join(parts, " AND ")
}

// where renders " WHERE a AND b" or an empty string when no clause was added
func (p *predicateSet) where() string {
	if len(p.items) == 0 {
		return ""
	}
	return " WHERE " + p.joined()
}

// apply chains every clause onto a GORM query as a Where condition
func (p *predicateSet) apply(db *gorm.DB) *gorm.DB {
	for _, it := range p.items {
		db = db.Where(it.sql, it.args...)
	}
	return db
}

// sqlQuery is a SQL statement assembled in parts with arguments kept in
// placeholder order.
type sqlQuery struct {
	sb   strings.Builder
	args []any
}

// write appends a SQL fragment and the arguments for its placeholders
func (q *sqlQuery) write(fragment string, args ...any) *sqlQuery {
	q.sb.WriteString(fragment)
	q.args = append(q.args, args...)
	return q
}

// writeWhere appends the rendered predicate set
func (q *sqlQuery) writeWhere(p *predicateSet) *sqlQuery {
	return q.write(p.where(), p.Args()...)
}

// SQL returns the statement text
func (q *sqlQuery) SQL() string {
	return q.sb.String()
}

// Args returns a copy of the positional arguments
func (q *sqlQuery) Args() []any {
	out := make([]any, len(q.args))
	copy(out, q.args)
	return out
}

// wrap returns a new query that embeds q as a prefix, sharing its arguments
func (q *sqlQuery) wrap() *sqlQuery {
	n := &sqlQuery{}
	n.write(q.SQL(), q.args...)
	return n
}
