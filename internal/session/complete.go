package session

import (
	"strings"

	"github.com/itsmostafa/jseval/internal/protocol"
)

// globalScope is the expression sent to the worker when completing in
// the global scope.
const globalScope = "globalThis"

// CompletionResult is a ranked replacement-range completion.
type CompletionResult struct {
	// List holds the candidate replacement strings in concatenation
	// order: property names first, then reserved words. Duplicates are
	// permitted.
	List        []string
	Code        string
	CursorPos   int
	MatchedText string
	// CursorStart and CursorEnd mark the span of Code a client should
	// replace with a candidate.
	CursorStart int
	CursorEnd   int
}

// CompleteCallbacks receive the outcome of a Complete call.
type CompleteCallbacks struct {
	OnSuccess func(*CompletionResult)
	OnError   func(*ErrorResult)
	BeforeRun func()
	AfterRun  func()
}

// Complete resolves completion candidates for the property-access
// expression ending at cursorPos. Positions with no completable
// expression yield an empty result without contacting the worker.
func (s *Session) Complete(code string, cursorPos int, cb CompleteCallbacks) {
	expr := ParseExpression(code, cursorPos)
	if expr == nil {
		if cb.OnSuccess != nil {
			cb.OnSuccess(&CompletionResult{
				Code:        code,
				CursorPos:   cursorPos,
				CursorStart: cursorPos,
				CursorEnd:   cursorPos,
			})
		}
		if cb.AfterRun != nil {
			cb.AfterRun()
		}
		return
	}

	scope := expr.Scope
	if scope == "" {
		scope = globalScope
	}
	s.submit(&task{
		action:    protocol.ActionGetAllPropertyNames,
		code:      scope,
		beforeRun: cb.BeforeRun,
		afterRun:  cb.AfterRun,
		onError:   cb.OnError,
		onSuccess: func(rep *protocol.Reply) {
			if cb.OnSuccess != nil {
				cb.OnSuccess(buildCompletion(code, cursorPos, expr, rep.Names))
			}
		},
	})
}

// buildCompletion filters, wraps and ranks the worker's property names
// into a replacement-range completion result.
func buildCompletion(code string, cursorPos int, expr *Expression, names []string) *CompletionResult {
	matches := make([]string, 0, len(names))
	matches = append(matches, names...)
	if expr.Scope == "" {
		matches = append(matches, javascriptKeywords...)
		matches = append(matches, futureReservedWords...)
		matches = append(matches, literalConstants...)
	}
	if expr.Selector != "" {
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			if strings.HasPrefix(m, expr.Selector) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	if expr.LeftOp != "" || expr.RightOp != "" {
		for i, m := range matches {
			matches[i] = expr.Scope + expr.LeftOp + m + expr.RightOp
		}
	}

	res := &CompletionResult{
		List:        matches,
		Code:        code,
		CursorPos:   cursorPos,
		MatchedText: expr.MatchedText,
	}
	if len(matches) == 0 {
		res.CursorStart = cursorPos
		res.CursorEnd = cursorPos
		return res
	}

	// The replacement span starts where the matched text appears and
	// extends over the existing characters already consistent with
	// every candidate, probed via the shortest one.
	start := strings.Index(code, expr.MatchedText)
	shortest := matches[0]
	for _, m := range matches[1:] {
		if len(m) < len(shortest) {
			shortest = m
		}
	}
	end := start
	for end < len(code) && end-start < len(shortest) && code[end] == shortest[end-start] {
		end++
	}
	res.CursorStart = start
	res.CursorEnd = end
	return res
}
