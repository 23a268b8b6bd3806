package protocol

import (
	"encoding/json"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	data, err := json.Marshal(Request{Action: ActionRun, Code: "1 + 2"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(data), `["run","1 + 2"]`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Action != ActionRun || req.Code != "1 + 2" {
		t.Errorf("round trip = %+v", req)
	}
}

func TestRequestRejectsUnknownAction(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`["frobnicate", "x"]`), &req); err == nil {
		t.Error("unknown action decoded without error")
	}
}

func TestReplyErrorIsDiscriminator(t *testing.T) {
	var rep Reply
	if err := json.Unmarshal([]byte(`{"error":{"ename":"TypeError","evalue":"boom","traceback":[]}}`), &rep); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rep.Error == nil || rep.Error.Ename != "TypeError" {
		t.Errorf("Error = %+v, want TypeError", rep.Error)
	}

	rep = Reply{}
	if err := json.Unmarshal([]byte(`{"names":["a","b"]}`), &rep); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rep.Error != nil {
		t.Errorf("success reply decoded with non-nil Error: %+v", rep.Error)
	}
}
