package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures the differences between SQL backends
type Dialect interface {
	// Name identifies the backend ("sqlite", "postgres")
	Name() string
	// Rebind converts a query written with ? placeholders to the backend's style
	Rebind(query string) string
	// MaxParams is the largest number of bind parameters per statement
	MaxParams() int
}

// QuestionDialect binds with ? placeholders (SQLite, MySQL)
type QuestionDialect struct {
	name      string
	maxParams int
}

// NewQuestionDialect returns a ? placeholder dialect
func NewQuestionDialect(name string, maxParams int) QuestionDialect {
	return QuestionDialect{name: name, maxParams: maxParams}
}

func (d QuestionDialect) Name() string               { return d.name }
func (d QuestionDialect) Rebind(query string) string { return query }
func (d QuestionDialect) MaxParams() int             { return d.maxParams }

// DollarDialect binds with $1, $2, ... placeholders (PostgreSQL)
type DollarDialect struct {
	name      string
	maxParams int
}

// NewDollarDialect returns a $n placeholder dialect
func NewDollarDialect(name string, maxParams int) DollarDialect {
	return DollarDialect{name: name, maxParams: maxParams}
}

func (d DollarDialect) Name() string   { return d.name }
func (d DollarDialect) MaxParams() int { return d.maxParams }

// Rebind replaces each ? with $n in order. Queries built here never carry
// literal question marks; values always travel as bind parameters.
func (d DollarDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n parameters
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
