package storage

import (
	"strconv"
	"strings"
)

// placeholderFunc renders the n-th (1-based) bind parameter for a dialect.
type placeholderFunc func(n int) string

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// whereBuilder composes predicate fragments and their bound arguments.
// Fragments use ? markers which are rewritten to the dialect's placeholder
// style; values only ever travel as bind arguments, never interpolated into
// the query text.
type whereBuilder struct {
	placeholder placeholderFunc
	clauses     []string
	args        []any
	n           int
}

func newWhereBuilder(p placeholderFunc) *whereBuilder {
	return &whereBuilder{placeholder: p}
}

// Where adds one predicate. The fragment must contain one ? per argument.
func (b *whereBuilder) Where(expr string, args ...any) *whereBuilder {
	b.clauses = append(b.clauses, b.rewrite(expr))
	b.args = append(b.args, args...)
	return b
}

// Bind reserves a placeholder outside the WHERE clause (LIMIT, OFFSET) and
// returns its rendered form. Call after all Where clauses so numbering
// follows argument order.
func (b *whereBuilder) Bind(arg any) string {
	b.n++
	b.args = append(b.args, arg)
	return b.placeholder(b.n)
}

// Clause renders the assembled WHERE clause, or "" when unfiltered.
func (b *whereBuilder) Clause() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (b *whereBuilder) Args() []any {
	return b.args
}

func (b *whereBuilder) rewrite(expr string) string {
	var sb strings.Builder
	for _, r := range expr {
		if r == '?' {
			b.n++
			sb.WriteString(b.placeholder(b.n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
