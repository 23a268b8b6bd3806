package session

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/itsmostafa/jseval/internal/jsdoc"
	"github.com/itsmostafa/jseval/internal/protocol"
)

// stubWorker fakes the worker side of the message channel so queue
// semantics can be tested without spawning a process.
type stubWorker struct {
	t    *testing.T
	reqs chan protocol.Request
	enc  *json.Encoder
}

func newStubSession(t *testing.T) (*Session, *stubWorker) {
	t.Helper()
	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()

	s := &Session{docs: jsdoc.Builtins()}
	s.mu.Lock()
	s.attachLocked(reqW, repR)
	s.mu.Unlock()

	w := &stubWorker{t: t, reqs: make(chan protocol.Request, 16), enc: json.NewEncoder(repW)}
	go func() {
		scanner := bufio.NewScanner(reqR)
		for scanner.Scan() {
			var req protocol.Request
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				continue
			}
			w.reqs <- req
		}
	}()
	t.Cleanup(func() {
		reqW.Close()
		repW.Close()
	})
	return s, w
}

// nextRequest waits for the controller to dispatch a request.
func (w *stubWorker) nextRequest() protocol.Request {
	w.t.Helper()
	select {
	case req := <-w.reqs:
		return req
	case <-time.After(2 * time.Second):
		w.t.Fatal("timed out waiting for a request")
		return protocol.Request{}
	}
}

// expectNone asserts that nothing is dispatched for a little while.
func (w *stubWorker) expectNone() {
	w.t.Helper()
	select {
	case req := <-w.reqs:
		w.t.Fatalf("unexpected request dispatched: %+v", req)
	case <-time.After(100 * time.Millisecond):
	}
}

func (w *stubWorker) reply(rep protocol.Reply) {
	w.t.Helper()
	if err := w.enc.Encode(rep); err != nil {
		w.t.Fatalf("failed to write stub reply: %v", err)
	}
}

func mimeReply(text string) protocol.Reply {
	return protocol.Reply{Mime: map[string]string{"text/plain": text}}
}

func TestExecuteRoutesSuccess(t *testing.T) {
	s, w := newStubSession(t)

	var got *ExecuteResult
	var errGot *ErrorResult
	done := make(chan struct{})
	s.Execute("1 + 2", ExecuteCallbacks{
		OnSuccess: func(res *ExecuteResult) { got = res },
		OnError:   func(e *ErrorResult) { errGot = e },
		AfterRun:  func() { close(done) },
	})

	req := w.nextRequest()
	if req.Action != protocol.ActionRun || req.Code != "1 + 2" {
		t.Fatalf("dispatched %+v, want run of \"1 + 2\"", req)
	}
	w.reply(mimeReply("3"))
	<-done

	if errGot != nil {
		t.Fatalf("OnError invoked: %+v", errGot)
	}
	if got == nil || got.Mime["text/plain"] != "3" {
		t.Errorf("OnSuccess got %+v, want text/plain \"3\"", got)
	}
}

func TestExecuteRoutesError(t *testing.T) {
	s, w := newStubSession(t)

	var got *ErrorResult
	successCalled := false
	done := make(chan struct{})
	s.Execute("nope", ExecuteCallbacks{
		OnSuccess: func(*ExecuteResult) { successCalled = true },
		OnError:   func(e *ErrorResult) { got = e },
		AfterRun:  func() { close(done) },
	})

	w.nextRequest()
	w.reply(protocol.Reply{Error: &protocol.ErrorResult{
		Ename:     "ReferenceError",
		Evalue:    "nope is not defined",
		Traceback: []string{"ReferenceError: nope is not defined"},
	}})
	<-done

	if successCalled {
		t.Fatal("OnSuccess invoked for an error reply")
	}
	if got == nil || got.Ename != "ReferenceError" {
		t.Errorf("OnError got %+v, want ReferenceError", got)
	}
}

func TestTaskOrderingIsStrictFIFO(t *testing.T) {
	s, w := newStubSession(t)

	var mu sync.Mutex
	var completed []string
	submit := func(code string, done chan struct{}) {
		s.Execute(code, ExecuteCallbacks{
			OnSuccess: func(*ExecuteResult) {
				mu.Lock()
				completed = append(completed, code)
				mu.Unlock()
			},
			AfterRun: func() {
				if done != nil {
					close(done)
				}
			},
		})
	}

	// T0 goes in flight; T1..T3 pile up behind it.
	submit("t0", nil)
	if req := w.nextRequest(); req.Code != "t0" {
		t.Fatalf("first dispatch was %q, want t0", req.Code)
	}
	last := make(chan struct{})
	submit("t1", nil)
	submit("t2", nil)
	submit("t3", last)

	// Nothing else reaches the worker until t0's reply is processed.
	w.expectNone()

	for _, want := range []string{"t1", "t2", "t3"} {
		w.reply(mimeReply("ok"))
		req := w.nextRequest()
		if req.Code != want {
			t.Fatalf("dispatch order got %q, want %q", req.Code, want)
		}
	}
	w.reply(mimeReply("ok"))
	<-last

	mu.Lock()
	defer mu.Unlock()
	want := []string{"t0", "t1", "t2", "t3"}
	if len(completed) != len(want) {
		t.Fatalf("completed %v, want %v", completed, want)
	}
	for i := range want {
		if completed[i] != want[i] {
			t.Errorf("completion order %v, want %v", completed, want)
			break
		}
	}
}

func TestCallbackOrderWithinTask(t *testing.T) {
	s, w := newStubSession(t)

	var mu sync.Mutex
	var order []string
	record := func(step string) func() {
		return func() {
			mu.Lock()
			order = append(order, step)
			mu.Unlock()
		}
	}
	done := make(chan struct{})
	s.Execute("x", ExecuteCallbacks{
		BeforeRun: record("before"),
		OnSuccess: func(*ExecuteResult) { record("success")() },
		AfterRun: func() {
			record("after")()
			close(done)
		},
	})

	w.nextRequest()
	w.reply(mimeReply("ok"))
	<-done

	mu.Lock()
	defer mu.Unlock()
	want := []string{"before", "success", "after"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("callback order %v, want %v", order, want)
		}
	}
}

func TestKillDropsQueuedTasks(t *testing.T) {
	s, w := newStubSession(t)

	s.Execute("t0", ExecuteCallbacks{})
	w.nextRequest()

	queuedFired := make(chan struct{}, 4)
	s.Execute("t1", ExecuteCallbacks{
		OnSuccess: func(*ExecuteResult) { queuedFired <- struct{}{} },
		OnError:   func(*ErrorResult) { queuedFired <- struct{}{} },
		AfterRun:  func() { queuedFired <- struct{}{} },
	})

	killed := make(chan struct{})
	s.Kill(nil, func(int, string) { close(killed) })
	<-killed

	// A reply arriving after kill must not resurrect the queue.
	w.reply(mimeReply("late"))
	w.expectNone()

	select {
	case <-queuedFired:
		t.Fatal("queued task callback fired after kill")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmitAfterKillIsDropped(t *testing.T) {
	s, w := newStubSession(t)

	killed := make(chan struct{})
	s.Kill(nil, func(int, string) { close(killed) })
	<-killed

	s.Execute("x", ExecuteCallbacks{
		OnSuccess: func(*ExecuteResult) { t.Error("OnSuccess fired on a killed session") },
		OnError:   func(*ErrorResult) { t.Error("OnError fired on a killed session") },
	})
	w.expectNone()
}

func TestKillTwiceReportsSameExit(t *testing.T) {
	s, _ := newStubSession(t)

	first := make(chan struct{})
	s.Kill(nil, func(int, string) { close(first) })
	<-first

	second := make(chan struct{})
	s.Kill(nil, func(code int, signal string) {
		if code != 0 || signal != "" {
			t.Errorf("second kill reported (%d, %q), want (0, \"\")", code, signal)
		}
		close(second)
	})
	<-second
}
