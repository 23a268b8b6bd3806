package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/jseval/internal/jsdoc"
	"github.com/itsmostafa/jseval/internal/protocol"
)

func TestInspectStampsResult(t *testing.T) {
	s, w := newStubSession(t)

	var got *InspectionResult
	done := make(chan struct{})
	s.Inspect("parseInt", 8, InspectCallbacks{
		OnSuccess: func(res *InspectionResult) { got = res },
		AfterRun:  func() { close(done) },
	})

	req := w.nextRequest()
	assert.Equal(t, protocol.ActionInspect, req.Action)
	assert.Equal(t, "parseInt", req.Code)
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{
		String:          "function parseInt() { [native code] }",
		Type:            "function",
		ConstructorList: []string{"Function", "Object"},
	}})
	<-done

	require.NotNil(t, got)
	assert.Equal(t, "parseInt", got.Code)
	assert.Equal(t, 8, got.CursorPos)
	assert.Equal(t, "parseInt", got.MatchedText)
	assert.Equal(t, "function", got.Type)
	assert.Equal(t, []string{"Function", "Object"}, got.ConstructorList)
	// Global name resolves documentation directly, with no second
	// round trip.
	w.expectNone()
	require.NotNil(t, got.Doc)
	assert.Contains(t, got.Doc.Description, "integer")
}

func TestInspectScopedResolvesDocViaConstructorChain(t *testing.T) {
	docs := jsdoc.New(map[string]jsdoc.Entry{
		"Error.prototype.toString": {Description: "Returns a string representing the error."},
	})
	s, w := newStubSession(t)
	s.docs = docs

	var got *InspectionResult
	done := make(chan struct{})
	s.Inspect("e.toString", 10, InspectCallbacks{
		OnSuccess: func(res *InspectionResult) { got = res },
		AfterRun:  func() { close(done) },
	})

	// First round trip inspects the full expression.
	req := w.nextRequest()
	assert.Equal(t, "e.toString", req.Code)
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{
		String: "function toString() { [native code] }",
		Type:   "function",
	}})

	// Second round trip inspects the scope for its constructor chain.
	req = w.nextRequest()
	assert.Equal(t, protocol.ActionInspect, req.Action)
	assert.Equal(t, "e", req.Code)
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{
		String:          "RangeError",
		Type:            "object",
		ConstructorList: []string{"RangeError", "Error", "Object"},
	}})
	<-done

	require.NotNil(t, got)
	// RangeError.prototype.toString has no entry; the Error-prefix
	// rewrite resolves it on the most-derived constructor.
	require.NotNil(t, got.Doc)
	assert.Equal(t, "Returns a string representing the error.", got.Doc.Description)
}

func TestInspectScopedNoDocMatch(t *testing.T) {
	s, w := newStubSession(t)
	s.docs = jsdoc.New(nil)

	var got *InspectionResult
	done := make(chan struct{})
	s.Inspect("obj.frob", 8, InspectCallbacks{
		OnSuccess: func(res *InspectionResult) { got = res },
		AfterRun:  func() { close(done) },
	})

	w.nextRequest()
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{String: "undefined", Type: "undefined"}})
	w.nextRequest()
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{
		Type:            "object",
		ConstructorList: []string{"Object"},
	}})
	<-done

	require.NotNil(t, got)
	assert.Nil(t, got.Doc)
}

func TestInspectUnparsablePositionYieldsEmptyResult(t *testing.T) {
	s, w := newStubSession(t)

	var got *InspectionResult
	done := make(chan struct{})
	s.Inspect("foo().ba", 8, InspectCallbacks{
		OnSuccess: func(res *InspectionResult) { got = res },
		AfterRun:  func() { close(done) },
	})
	<-done

	w.expectNone()
	require.NotNil(t, got)
	assert.Empty(t, got.String)
	assert.Empty(t, got.Type)
	assert.Empty(t, got.MatchedText)
}

func TestInspectErrorOnFirstRequestStopsResolution(t *testing.T) {
	s, w := newStubSession(t)

	var gotErr *ErrorResult
	successCalled := false
	afterRuns := 0
	done := make(chan struct{})
	s.Inspect("obj.ba", 6, InspectCallbacks{
		OnSuccess: func(*InspectionResult) { successCalled = true },
		OnError:   func(e *ErrorResult) { gotErr = e },
		AfterRun: func() {
			afterRuns++
			close(done)
		},
	})

	w.nextRequest()
	w.reply(protocol.Reply{Error: &protocol.ErrorResult{Ename: "ReferenceError", Evalue: "obj is not defined"}})
	<-done

	// The scope is never inspected after the first request fails.
	w.expectNone()
	assert.False(t, successCalled)
	require.NotNil(t, gotErr)
	assert.Equal(t, "ReferenceError", gotErr.Ename)
	assert.Equal(t, 1, afterRuns)
}

func TestInspectErrorOnScopeRequestPropagates(t *testing.T) {
	s, w := newStubSession(t)

	var gotErr *ErrorResult
	successCalled := false
	done := make(chan struct{})
	s.Inspect("obj.ba", 6, InspectCallbacks{
		OnSuccess: func(*InspectionResult) { successCalled = true },
		OnError:   func(e *ErrorResult) { gotErr = e },
		AfterRun:  func() { close(done) },
	})

	w.nextRequest()
	w.reply(protocol.Reply{Inspection: &protocol.Inspection{String: "1", Type: "number"}})
	w.nextRequest()
	w.reply(protocol.Reply{Error: &protocol.ErrorResult{Ename: "EvalError", Evalue: "boom"}})
	<-done

	assert.False(t, successCalled)
	require.NotNil(t, gotErr)
	assert.Equal(t, "EvalError", gotErr.Ename)
}
