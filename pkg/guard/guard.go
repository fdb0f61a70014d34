// Package guard implements the SQL safety gate that every statement must pass
// before it may reach a datasource. It is a screening heuristic, not a parser:
// it deliberately over-rejects ambiguous input. The Validator interface keeps
// the orchestrator decoupled so a parser-backed implementation could replace
// it without changing any caller.
package guard

import (
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// Verdict is the pure result of screening one SQL string.
type Verdict struct {
	Safe   bool
	Reason string
}

// Validator classifies a candidate SQL string as safe or unsafe.
type Validator interface {
	Validate(sql string) Verdict
}

// deniedKeywords are mutating/DDL keywords rejected anywhere in the statement.
// Token-level scanning catches a mutating clause smuggled after a semicolon
// without needing to parse.
var deniedKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER",
	"CREATE", "TRUNCATE", "GRANT", "REVOKE",
}

// allowedPrefixes are the only statement forms accepted.
var allowedPrefixes = []string{"SELECT", "WITH"}

// Guard is the default Validator. Zero value is ready to use.
type Guard struct{}

// New returns a ready-to-use Guard.
func New() *Guard { return &Guard{} }

// Validate screens sql in a fixed order, first failure wins:
//  1. deny-list keyword appearing as a token anywhere
//  2. allow-list prefix (SELECT or WITH)
//  3. chaining/injection patterns (";<mutating>", line and block comments,
//     UNION SELECT, EXEC()/EXECUTE())
//  4. libinjection fingerprint scan
//
// Step 4 extends the fixed rule set; it never weakens it, and the reasons
// produced by steps 1-3 are stable.
func (g *Guard) Validate(sql string) Verdict {
	canon := strings.ToUpper(strings.TrimSpace(sql))
	if canon == "" {
		return Verdict{Safe: false, Reason: "empty query"}
	}

	if kw := findDeniedKeyword(canon); kw != "" {
		return Verdict{Safe: false, Reason: "query contains forbidden keyword: " + kw}
	}

	if !hasAllowedPrefix(canon) {
		return Verdict{Safe: false, Reason: "query must start with SELECT or WITH"}
	}

	if reason := findDangerousPattern(canon); reason != "" {
		return Verdict{Safe: false, Reason: reason}
	}

	// libinjection is tuned for attacker-controlled values, not whole
	// statements, so only the string literals are scanned. A full SELECT
	// would fingerprint as SQL and reject everything.
	for _, lit := range stringLiterals(sql) {
		if isSQLi, fingerprint := libinjection.IsSQLi(lit); isSQLi {
			return Verdict{Safe: false, Reason: "string literal matches SQL injection fingerprint " + string(fingerprint)}
		}
	}

	return Verdict{Safe: true}
}

// stringLiterals returns the contents of every single-quoted literal.
// Doubled quotes ('') are treated as an escaped quote within one literal.
func stringLiterals(sql string) []string {
	var literals []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if !inString {
			if c == '\'' {
				inString = true
			}
			continue
		}
		if c == '\'' {
			if i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte('\'')
				i++
				continue
			}
			literals = append(literals, current.String())
			current.Reset()
			inString = false
			continue
		}
		current.WriteByte(c)
	}
	return literals
}

// findDeniedKeyword returns the first deny-listed keyword occurring as a
// whole token in the canonicalized SQL, or "" when none does.
func findDeniedKeyword(canon string) string {
	tokens := tokenize(canon)
	for _, tok := range tokens {
		for _, kw := range deniedKeywords {
			if tok == kw {
				return kw
			}
		}
	}
	return ""
}

func hasAllowedPrefix(canon string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(canon, prefix) {
			return true
		}
	}
	return false
}

// findDangerousPattern scans for statement-chaining and injection shapes.
func findDangerousPattern(canon string) string {
	// Semicolon followed by a mutating keyword. The deny-list scan already
	// rejects those keywords outright, but a chained SELECT-ish statement
	// like "; EXEC ..." still needs the shape check below, and keeping this
	// rule preserves reason stability if the keyword set ever diverges.
	if idx := strings.IndexByte(canon, ';'); idx >= 0 {
		rest := strings.TrimSpace(canon[idx+1:])
		for _, kw := range deniedKeywords {
			if strings.HasPrefix(rest, kw) {
				return "statement chaining with " + kw + " is not allowed"
			}
		}
	}

	if strings.Contains(canon, "--") {
		return "SQL line comments are not allowed"
	}
	if strings.Contains(canon, "/*") || strings.Contains(canon, "*/") {
		return "SQL block comments are not allowed"
	}
	if chainedUnionSelect(canon) {
		return "UNION SELECT is not allowed"
	}
	for _, exec := range []string{"EXEC", "EXECUTE"} {
		if execCall(canon, exec) {
			return exec + "() calls are not allowed"
		}
	}
	return ""
}

// chainedUnionSelect reports UNION followed by SELECT with only whitespace
// between the tokens.
func chainedUnionSelect(canon string) bool {
	rest := canon
	for {
		idx := strings.Index(rest, "UNION")
		if idx < 0 {
			return false
		}
		after := strings.TrimLeft(rest[idx+len("UNION"):], " \t\n\r")
		if strings.HasPrefix(after, "SELECT") {
			return true
		}
		rest = rest[idx+len("UNION"):]
	}
}

// execCall reports the keyword immediately followed by an opening paren,
// allowing whitespace between keyword and paren.
func execCall(canon, keyword string) bool {
	rest := canon
	for {
		idx := strings.Index(rest, keyword)
		if idx < 0 {
			return false
		}
		// Must be a token boundary on the left.
		if idx == 0 || !isWordByte(rest[idx-1]) {
			after := strings.TrimLeft(rest[idx+len(keyword):], " \t\n\r")
			if strings.HasPrefix(after, "(") {
				return true
			}
		}
		rest = rest[idx+len(keyword):]
	}
}

// tokenize splits canonicalized SQL into word tokens, treating everything
// that is not a letter, digit, or underscore as a separator. String literals
// are not excluded: a keyword inside a literal still rejects.
func tokenize(canon string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(canon); i++ {
		if c := canon[i]; isWordByte(c) {
			current.WriteByte(c)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Ensure Guard implements Validator at compile time.
var _ Validator = (*Guard)(nil)
