// Package worker runs the evaluation loop of a spawned worker process:
// it reads one request per line from the message channel, evaluates it,
// and writes exactly one reply per request.
package worker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/itsmostafa/jseval/internal/engine"
	"github.com/itsmostafa/jseval/internal/protocol"
)

// Config wires the worker's channels and streams. Requests/Replies is
// the structured message channel; Stdout/Stderr receive the evaluated
// program's own output.
type Config struct {
	Requests io.Reader
	Replies  io.Writer
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run processes requests until the request channel reaches EOF.
func Run(cfg Config) error {
	eng, err := engine.New(cfg.Stdout, cfg.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	scanner := bufio.NewScanner(cfg.Requests)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)
	enc := json.NewEncoder(cfg.Replies)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var req protocol.Request
		var rep protocol.Reply
		if err := json.Unmarshal(line, &req); err != nil {
			slog.Error("malformed request", "error", err)
			rep = protocol.Reply{Error: &protocol.ErrorResult{
				Ename:     "ProtocolError",
				Evalue:    err.Error(),
				Traceback: []string{err.Error()},
			}}
		} else {
			slog.Debug("request received", "action", req.Action)
			rep = eng.Handle(req)
		}
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("request channel read failed: %w", err)
	}
	slog.Debug("request channel closed, exiting")
	return nil
}
