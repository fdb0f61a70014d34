package guard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_DeniedKeywords(t *testing.T) {
	g := New()

	keywords := []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE", "GRANT", "REVOKE"}
	casings := []func(string) string{
		strings.ToUpper,
		strings.ToLower,
		func(s string) string { return s[:1] + strings.ToLower(s[1:]) },
	}

	for _, kw := range keywords {
		for _, casing := range casings {
			sql := "SELECT 1; " + casing(kw) + " TABLE users"
			v := g.Validate(sql)
			assert.False(t, v.Safe, "expected unsafe: %s", sql)
			assert.Contains(t, v.Reason, kw, "reason must name the keyword for %s", sql)
		}
	}
}

func TestValidate_KeywordMustBeWholeToken(t *testing.T) {
	g := New()

	// DROPPED contains DROP only as a substring, updated_at contains UPDATE.
	tests := []string{
		"SELECT dropped_items FROM inventory",
		"SELECT updated_at FROM customers",
		"SELECT created_by FROM orders",
	}
	for _, sql := range tests {
		v := g.Validate(sql)
		assert.True(t, v.Safe, "expected safe: %s (reason: %s)", sql, v.Reason)
	}
}

func TestValidate_AllowListPrefix(t *testing.T) {
	g := New()

	tests := []struct {
		name string
		sql  string
		safe bool
	}{
		{"select", "SELECT name FROM customers", true},
		{"select lowercase with whitespace", "   select 1  ", true},
		{"with cte", "WITH top AS (SELECT 1) SELECT * FROM top", true},
		{"explain", "EXPLAIN SELECT 1", false},
		{"show", "SHOW TABLES", false},
		{"pragma", "PRAGMA table_info(users)", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Validate(tt.sql)
			assert.Equal(t, tt.safe, v.Safe, "reason: %s", v.Reason)
			if !tt.safe && strings.TrimSpace(tt.sql) != "" {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestValidate_DangerousPatterns(t *testing.T) {
	g := New()

	tests := []struct {
		name   string
		sql    string
		reason string
	}{
		{"chained drop", "SELECT * FROM t; DROP TABLE t", "DROP"},
		{"line comment", "SELECT 1 -- hide the rest", "comment"},
		{"block comment", "SELECT /* sneaky */ 1", "comment"},
		{"union select", "SELECT id FROM a UNION SELECT password FROM b", "UNION"},
		{"exec call", "SELECT 1 WHERE EXEC(x)", "EXEC"},
		{"execute call with space", "SELECT 1 WHERE EXECUTE (x)", "EXECUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Validate(tt.sql)
			assert.False(t, v.Safe)
			assert.Contains(t, v.Reason, tt.reason)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	g := New()

	// Contains both a denied keyword and a comment; the deny-list runs first.
	v := g.Validate("DROP TABLE t -- cleanup")
	assert.False(t, v.Safe)
	assert.Contains(t, v.Reason, "DROP")
	assert.NotContains(t, v.Reason, "comment")
}

func TestValidate_SafeQueries(t *testing.T) {
	g := New()

	tests := []string{
		"SELECT name FROM customers WHERE region = 'North'",
		"SELECT c.name, SUM(o.total) FROM customers c JOIN orders o ON o.customer_id = c.id GROUP BY c.name",
		"WITH recent AS (SELECT * FROM orders WHERE placed_at > '2024-01-01') SELECT COUNT(*) FROM recent",
		"SELECT product, price FROM products ORDER BY price DESC LIMIT 10",
		"select union_member from clubs", // UNION not followed by SELECT
	}

	for _, sql := range tests {
		v := g.Validate(sql)
		assert.True(t, v.Safe, "expected safe: %s (reason: %s)", sql, v.Reason)
		assert.Empty(t, v.Reason)
	}
}

func TestValidate_InjectionFingerprintInLiteral(t *testing.T) {
	g := New()

	v := g.Validate("SELECT * FROM users WHERE name = '1'' OR ''1''=''1'")
	assert.False(t, v.Safe)
	assert.Contains(t, v.Reason, "injection")
}

func TestValidate_Deterministic(t *testing.T) {
	g := New()

	sql := "SELECT * FROM t; DROP TABLE t"
	first := g.Validate(sql)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.Validate(sql))
	}
}
