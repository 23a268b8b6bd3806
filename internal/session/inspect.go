package session

import (
	"github.com/itsmostafa/jseval/internal/jsdoc"
	"github.com/itsmostafa/jseval/internal/protocol"
)

// InspectionResult describes the value of the expression at the cursor,
// enriched with documentation when any is known.
type InspectionResult struct {
	Code        string
	CursorPos   int
	MatchedText string
	// String is the value's textual representation and Type its
	// JavaScript typeof.
	String string
	Type   string
	// ConstructorList holds the value's constructor chain, most
	// derived first.
	ConstructorList []string
	Length          *int
	Doc             *jsdoc.Entry
}

// InspectCallbacks receive the outcome of an Inspect call.
type InspectCallbacks struct {
	OnSuccess func(*InspectionResult)
	OnError   func(*ErrorResult)
	BeforeRun func()
	AfterRun  func()
}

// Inspect evaluates the expression ending at cursorPos and describes
// the result. Scoped expressions cost a second worker round trip: the
// scope's constructor chain drives the documentation lookup, walking
// <constructor>.prototype.<selector> most-derived first and keeping the
// first hit. OnSuccess and AfterRun fire only after documentation
// resolution completes.
func (s *Session) Inspect(code string, cursorPos int, cb InspectCallbacks) {
	expr := ParseExpression(code, cursorPos)
	if expr == nil {
		if cb.OnSuccess != nil {
			cb.OnSuccess(&InspectionResult{Code: code, CursorPos: cursorPos})
		}
		if cb.AfterRun != nil {
			cb.AfterRun()
		}
		return
	}

	finish := func(res *InspectionResult) {
		if cb.OnSuccess != nil {
			cb.OnSuccess(res)
		}
		if cb.AfterRun != nil {
			cb.AfterRun()
		}
	}
	fail := func(e *ErrorResult) {
		if cb.OnError != nil {
			cb.OnError(e)
		}
		if cb.AfterRun != nil {
			cb.AfterRun()
		}
	}

	s.submit(&task{
		action:    protocol.ActionInspect,
		code:      expr.MatchedText,
		beforeRun: cb.BeforeRun,
		onError:   fail,
		onSuccess: func(rep *protocol.Reply) {
			res := &InspectionResult{
				Code:        code,
				CursorPos:   cursorPos,
				MatchedText: expr.MatchedText,
			}
			if insp := rep.Inspection; insp != nil {
				res.String = insp.String
				res.Type = insp.Type
				res.ConstructorList = insp.ConstructorList
				res.Length = insp.Length
			}
			if expr.Scope == "" {
				if entry, ok := s.docs.Lookup(expr.MatchedText); ok {
					res.Doc = &entry
				}
				finish(res)
				return
			}
			// Inspect the scope to learn its constructor chain, then
			// resolve documentation against it.
			s.submit(&task{
				action:  protocol.ActionInspect,
				code:    expr.Scope,
				onError: fail,
				onSuccess: func(scopeRep *protocol.Reply) {
					if scopeRep.Inspection != nil {
						for _, ctor := range scopeRep.Inspection.ConstructorList {
							entry, ok := s.docs.Lookup(ctor + ".prototype." + expr.Selector)
							if ok {
								res.Doc = &entry
								break
							}
						}
					}
					finish(res)
				},
			})
		},
	})
}
