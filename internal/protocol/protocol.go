// Package protocol defines the messages exchanged between a session
// controller and its evaluation worker process. Requests travel as
// ["action", "code"] pairs, one JSON value per line; the worker answers
// every request with exactly one Reply.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Action identifies the operation requested of the worker.
type Action string

const (
	// ActionRun evaluates code and replies with a mime bundle.
	ActionRun Action = "run"
	// ActionGetAllPropertyNames enumerates the property names of the
	// object the code evaluates to, including inherited ones.
	ActionGetAllPropertyNames Action = "getAllPropertyNames"
	// ActionInspect evaluates code and replies with a description of
	// the resulting value.
	ActionInspect Action = "inspect"
)

// Request is the (action, code) pair sent to the worker. It marshals as
// a two-element JSON array.
type Request struct {
	Action Action
	Code   string
}

// MarshalJSON encodes the request as ["action", "code"].
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{string(r.Action), r.Code})
}

// UnmarshalJSON decodes a ["action", "code"] pair.
func (r *Request) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("request must be a [action, code] pair: %w", err)
	}
	switch Action(pair[0]) {
	case ActionRun, ActionGetAllPropertyNames, ActionInspect:
	default:
		return fmt.Errorf("unknown action %q", pair[0])
	}
	r.Action = Action(pair[0])
	r.Code = pair[1]
	return nil
}

// Reply is the worker's answer to a single request. Exactly one of the
// payload fields is populated for a successful reply; a non-nil Error
// is the sole discriminator of failure.
type Reply struct {
	Mime       map[string]string `json:"mime,omitempty"`
	Names      []string          `json:"names,omitempty"`
	Inspection *Inspection       `json:"inspection,omitempty"`
	Error      *ErrorResult      `json:"error,omitempty"`
}

// Inspection describes an evaluated value.
type Inspection struct {
	String string `json:"string"`
	Type   string `json:"type"`
	// ConstructorList holds the constructor names of the value's
	// prototype chain, most derived first.
	ConstructorList []string `json:"constructorList,omitempty"`
	Length          *int     `json:"length,omitempty"`
}

// ErrorResult carries a worker-side evaluation error.
type ErrorResult struct {
	Ename     string   `json:"ename"`
	Evalue    string   `json:"evalue"`
	Traceback []string `json:"traceback"`
}
