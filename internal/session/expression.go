package session

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expression is the property-access expression found at a cursor
// position. A nil *Expression means the position is not completable or
// inspectable; a zero-value Expression means the cursor sits at a valid
// boundary with nothing to complete (start of input or after
// whitespace).
type Expression struct {
	// MatchedText is the full expression as it appears verbatim in the
	// source up to the cursor.
	MatchedText string
	// Scope is the object-valued prefix. Empty means the global scope.
	Scope string
	// LeftOp and RightOp are the access syntax reaching the selector:
	// ("", ""), (".", ""), ("[\"", "\"]") or ("['", "']").
	LeftOp  string
	RightOp string
	// Selector is the partial property-name stem being completed.
	Selector string
}

var (
	// Trailing identifier run, e.g. the "ba" in `foo["ba`.
	trailingIdent = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*$`)

	// A dotted/bracketed property-access chain anchored at the end of
	// the remainder, e.g. `foo.bar["baz"]`.
	trailingChain = regexp.MustCompile(
		`[A-Za-z_$][A-Za-z0-9_$]*` +
			`(?:` +
			`\.[A-Za-z_$][A-Za-z0-9_$]*` +
			`|\["(?:[^"\\]|\\.)*"\]` +
			`|\['(?:[^'\\]|\\.)*'\]` +
			`)*$`)
)

// ParseExpression identifies the trailing property-access expression
// ending at cursorPos and decomposes it into scope, access operators
// and selector stem. It is a best-effort heuristic: expressions
// containing call parentheses, operators or non-literal bracket keys
// yield nil.
func ParseExpression(code string, cursorPos int) *Expression {
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len(code) {
		cursorPos = len(code)
	}
	prefix := code[:cursorPos]
	if prefix == "" || endsInSpace(prefix) {
		return &Expression{}
	}

	selector := trailingIdent.FindString(prefix)
	rest := prefix[:len(prefix)-len(selector)]

	var leftOp, rightOp string
	switch {
	case strings.HasSuffix(rest, "."):
		leftOp, rightOp = ".", ""
		rest = rest[:len(rest)-1]
	case strings.HasSuffix(rest, `["`):
		leftOp, rightOp = `["`, `"]`
		rest = rest[:len(rest)-2]
	case strings.HasSuffix(rest, `['`):
		leftOp, rightOp = `['`, `']`
		rest = rest[:len(rest)-2]
	default:
		// A bare identifier with no scope.
		return &Expression{
			MatchedText: code[len(rest):cursorPos],
			Selector:    selector,
		}
	}

	loc := trailingChain.FindStringIndex(rest)
	if loc == nil {
		// An access operator with no recognizable scope before it,
		// e.g. `foo().bar` or `(a+b).`.
		return nil
	}
	return &Expression{
		MatchedText: code[loc[0]:cursorPos],
		Scope:       rest[loc[0]:loc[1]],
		LeftOp:      leftOp,
		RightOp:     rightOp,
		Selector:    selector,
	}
}

func endsInSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
