// Package session runs a long-lived JavaScript worker process and
// serializes units of work against it: at most one request is ever
// outstanding, replies are matched 1:1 to the task that produced them,
// and pending work drains in strict FIFO order.
package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/itsmostafa/jseval/internal/jsdoc"
	"github.com/itsmostafa/jseval/internal/protocol"
)

// ErrorResult is a worker-side evaluation error, surfaced verbatim to
// OnError callbacks.
type ErrorResult = protocol.ErrorResult

// ExecuteResult is the successful outcome of an Execute call.
type ExecuteResult struct {
	// Mime maps mime types to renderings of the evaluated value,
	// e.g. "text/plain".
	Mime map[string]string
}

// ExecuteCallbacks receive the outcome of an Execute call. Any field
// may be nil; a nil callback silently drops that notification.
type ExecuteCallbacks struct {
	OnSuccess func(*ExecuteResult)
	OnError   func(*ErrorResult)
	// BeforeRun fires immediately before the task is dispatched to the
	// worker, which may be after earlier queued tasks drain.
	BeforeRun func()
	// AfterRun fires after either outcome, always.
	AfterRun func()
}

// Config holds session construction options. The worker executable and
// its startup arguments are fixed; only the working directory is
// configurable.
type Config struct {
	// Cwd is the worker process's working directory. Empty means the
	// controller's working directory.
	Cwd string
	// Docs overrides the documentation table consulted by Inspect.
	// Nil means the built-in table.
	Docs *jsdoc.Table
}

// task is a unit of pending or in-flight work, owned exclusively by the
// session from submission until its reply is processed.
type task struct {
	action    protocol.Action
	code      string
	onSuccess func(*protocol.Reply)
	onError   func(*ErrorResult)
	beforeRun func()
	afterRun  func()
}

// workerProc bundles the spawned worker with its standard streams and
// the parent ends of the message channel.
type workerProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// Session owns one worker process and the queue of tasks against it.
type Session struct {
	cfg  Config
	docs *jsdoc.Table

	mu      sync.Mutex
	current *task
	pending []*task
	killed  bool
	// gen tags reply listeners; kill/restart bumps it so stale
	// listeners detach.
	gen        int
	enc        *json.Encoder
	reqCloser  io.Closer
	proc       *workerProc
	exitCode   int
	exitSignal string
}

// New spawns a worker process and returns a live, idle session bound
// to it.
func New(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg, docs: cfg.Docs}
	if s.docs == nil {
		s.docs = jsdoc.Builtins()
	}
	s.mu.Lock()
	err := s.startLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// startLocked spawns the worker and attaches the reply listener. The
// message channel rides on fds 3 (requests) and 4 (replies) so the
// worker's standard streams stay free for program output.
func (s *Session) startLocked() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve worker executable: %w", err)
	}
	reqR, reqW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create request pipe: %w", err)
	}
	repR, repW, err := os.Pipe()
	if err != nil {
		reqR.Close()
		reqW.Close()
		return fmt.Errorf("failed to create reply pipe: %w", err)
	}

	cmd := exec.Command(exe, "worker")
	cmd.Dir = s.cfg.Cwd
	cmd.ExtraFiles = []*os.File{reqR, repW}

	stdin, err := cmd.StdinPipe()
	if err == nil {
		var stdout, stderr io.ReadCloser
		stdout, err = cmd.StdoutPipe()
		if err == nil {
			stderr, err = cmd.StderrPipe()
			if err == nil {
				err = cmd.Start()
			}
			if err == nil {
				s.proc = &workerProc{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}
			}
		}
	}
	// The child owns its ends now; close them in the parent either way.
	reqR.Close()
	repW.Close()
	if err != nil {
		reqW.Close()
		repR.Close()
		return fmt.Errorf("failed to start worker: %w", err)
	}

	slog.Debug("worker started", "pid", cmd.Process.Pid, "cwd", s.cfg.Cwd)
	s.attachLocked(reqW, repR)
	return nil
}

// attachLocked wires the session to a request writer and a reply
// reader. Tests use this directly to substitute a stub worker.
func (s *Session) attachLocked(w io.WriteCloser, r io.Reader) {
	s.enc = json.NewEncoder(w)
	s.reqCloser = w
	go s.readReplies(r, s.gen)
}

// Execute enqueues a run task. The worker's reply routes to OnSuccess
// or OnError depending on whether it carries an error payload.
func (s *Session) Execute(code string, cb ExecuteCallbacks) {
	s.submit(&task{
		action:    protocol.ActionRun,
		code:      code,
		beforeRun: cb.BeforeRun,
		afterRun:  cb.AfterRun,
		onError:   cb.OnError,
		onSuccess: func(rep *protocol.Reply) {
			if cb.OnSuccess != nil {
				cb.OnSuccess(&ExecuteResult{Mime: rep.Mime})
			}
		},
	})
}

// submit dispatches the task immediately when the session is idle and
// queues it otherwise. Submissions on a killed session are dropped
// without invoking any callback.
func (s *Session) submit(t *task) {
	s.mu.Lock()
	if s.killed {
		s.mu.Unlock()
		slog.Debug("task dropped, session killed", "action", t.action)
		return
	}
	if s.current != nil {
		s.pending = append(s.pending, t)
		s.mu.Unlock()
		slog.Debug("task queued", "action", t.action, "queued", len(s.pending))
		return
	}
	s.current = t
	s.mu.Unlock()
	s.send(t)
}

// send fires beforeRun and writes the request. Only the goroutine that
// claimed the current slot ever sends, so writes never interleave.
func (s *Session) send(t *task) {
	if t.beforeRun != nil {
		t.beforeRun()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killed || s.enc == nil {
		return
	}
	slog.Debug("task dispatched", "action", t.action, "code", t.code)
	if err := s.enc.Encode(protocol.Request{Action: t.action, Code: t.code}); err != nil {
		slog.Error("failed to write request", "action", t.action, "error", err)
	}
}

// readReplies delivers worker replies for as long as the listener
// generation stays current. Channel closure ends the loop silently;
// recovery is the caller's job via Kill or Restart.
func (s *Session) readReplies(r io.Reader, gen int) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rep protocol.Reply
		if err := json.Unmarshal(line, &rep); err != nil {
			slog.Error("malformed reply", "error", err)
			continue
		}
		if !s.handleReply(&rep, gen) {
			return
		}
	}
	slog.Debug("reply channel closed", "error", scanner.Err())
}

// handleReply routes a reply to the in-flight task's callbacks, then
// dispatches the next pending task. Returns false once the listener is
// stale and should stop.
func (s *Session) handleReply(rep *protocol.Reply, gen int) bool {
	s.mu.Lock()
	if gen != s.gen || s.killed {
		s.mu.Unlock()
		return false
	}
	cur := s.current
	s.mu.Unlock()
	if cur == nil {
		slog.Error("reply received with no task in flight")
		return true
	}

	// Callbacks run unlocked so they can submit follow-up tasks; the
	// current slot stays claimed, so those tasks queue behind us.
	if rep.Error != nil {
		if cur.onError != nil {
			cur.onError(rep.Error)
		}
	} else if cur.onSuccess != nil {
		cur.onSuccess(rep)
	}
	if cur.afterRun != nil {
		cur.afterRun()
	}

	s.mu.Lock()
	if gen != s.gen || s.killed {
		s.mu.Unlock()
		return false
	}
	s.current = nil
	var next *task
	if len(s.pending) > 0 {
		next = s.pending[0]
		s.pending = s.pending[1:]
		s.current = next
	}
	s.mu.Unlock()
	if next != nil {
		s.send(next)
	}
	return true
}

// Kill marks the session killed, detaches the reply listener, signals
// the worker and reports its exit. Queued tasks are abandoned without
// invoking their callbacks; no further task reaches the worker. A nil
// signal means SIGTERM.
func (s *Session) Kill(sig os.Signal, onKilled func(exitCode int, signal string)) {
	if sig == nil {
		sig = syscall.SIGTERM
	}
	s.mu.Lock()
	if s.killed {
		code, signame := s.exitCode, s.exitSignal
		s.mu.Unlock()
		if onKilled != nil {
			onKilled(code, signame)
		}
		return
	}
	s.killed = true
	s.gen++
	s.current = nil
	s.pending = nil
	proc := s.proc
	s.proc = nil
	closer := s.reqCloser
	s.reqCloser = nil
	s.enc = nil
	s.mu.Unlock()

	if closer != nil {
		closer.Close()
	}
	if proc == nil {
		if onKilled != nil {
			onKilled(0, "")
		}
		return
	}

	slog.Debug("killing worker", "pid", proc.cmd.Process.Pid, "signal", sig)
	if err := proc.cmd.Process.Signal(sig); err != nil {
		slog.Error("failed to signal worker", "error", err)
	}
	go func() {
		err := proc.cmd.Wait()
		code, signame := exitStatus(proc.cmd, err)
		s.mu.Lock()
		s.exitCode, s.exitSignal = code, signame
		s.mu.Unlock()
		slog.Debug("worker exited", "code", code, "signal", signame)
		if onKilled != nil {
			onKilled(code, signame)
		}
	}()
}

// Restart kills the worker and re-initializes the session in place with
// the same configuration. The old queue and in-flight task are
// discarded; the new session starts idle with an empty queue.
func (s *Session) Restart(sig os.Signal, onRestarted func(exitCode int, signal string)) {
	s.Kill(sig, func(code int, signame string) {
		s.mu.Lock()
		s.current = nil
		s.pending = nil
		err := s.startLocked()
		if err == nil {
			s.killed = false
		}
		s.mu.Unlock()
		if err != nil {
			slog.Error("failed to restart worker", "error", err)
		}
		if onRestarted != nil {
			onRestarted(code, signame)
		}
	})
}

// exitStatus extracts the exit code and terminating signal name, if
// any, from a finished worker.
func exitStatus(cmd *exec.Cmd, waitErr error) (int, string) {
	state := cmd.ProcessState
	if state == nil {
		if waitErr != nil {
			slog.Error("worker wait failed", "error", waitErr)
		}
		return -1, ""
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return state.ExitCode(), unix.SignalName(ws.Signal())
	}
	return state.ExitCode(), ""
}

// Stdin is the worker's standard input, for direct program input. Nil
// after Kill.
func (s *Session) Stdin() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return nil
	}
	return s.proc.stdin
}

// Stdout is the worker's standard output. Evaluated code writing to
// stdout (e.g. via console.log) appears here, interleaved with nothing
// else: protocol traffic rides a separate channel. Nil after Kill.
func (s *Session) Stdout() io.Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return nil
	}
	return s.proc.stdout
}

// Stderr is the worker's standard error. Nil after Kill.
func (s *Session) Stderr() io.Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return nil
	}
	return s.proc.stderr
}
