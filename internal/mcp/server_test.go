package mcp

import (
	"encoding/json"
	"strings"
	"testing"

	"casevault/internal/engine"
	"casevault/internal/policy"
	"casevault/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng := engine.New(storage.NewMemoryStore(), policy.Trusted, nil)
	return NewServer(eng, 0)
}

func call(t *testing.T, s *Server, body string) *Response {
	t.Helper()
	resp := s.handleRequest([]byte(body))
	if resp == nil {
		t.Fatalf("no response for %s", body)
	}
	return resp
}

// textPayload unwraps the MCP text content and decodes the inner JSON.
func textPayload(t *testing.T, resp *Response, into interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error response: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result shape: %T", resp.Result)
	}
	content := result["content"].([]map[string]interface{})
	text := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), into); err != nil {
		t.Fatalf("inner payload: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil {
		t.Fatalf("initialize error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "casevault" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
}

func TestToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]map[string]interface{})

	names := map[string]bool{}
	for _, tool := range tools {
		names[tool["name"].(string)] = true
	}
	for _, want := range []string{"search_cases", "get_case_context", "add_case"} {
		if !names[want] {
			t.Errorf("missing tool %s in %v", want, names)
		}
	}
	if len(tools) != 3 {
		t.Errorf("tool count = %d, want 3", len(tools))
	}
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	if resp.Error == nil || resp.Error.Code != codeMethodMissing {
		t.Errorf("unknown method response = %+v, want -32601", resp.Error)
	}
}

func TestAddThenSearchRoundTrip(t *testing.T) {
	s := newTestServer(t)

	addReq := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"add_case","arguments":{"content":"ICM-700: AMA heartbeat missing, contact admin@example.com at 10.0.0.5"}}}`
	var added map[string]string
	textPayload(t, call(t, s, addReq), &added)
	if added["caseId"] != "ICM-700" {
		t.Fatalf("add_case id = %q, want ICM-700", added["caseId"])
	}

	searchReq := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"search_cases","arguments":{"query":"heartbeat"}}}`
	var export engine.ContextExport
	textPayload(t, call(t, s, searchReq), &export)

	if export.Type != "casevault/context" || export.Count != 1 {
		t.Fatalf("search export = type %q count %d", export.Type, export.Count)
	}
	preview := export.Cases[0].ContentPreview
	if strings.Contains(preview, "admin@example.com") || strings.Contains(preview, "10.0.0.5") {
		t.Errorf("context export leaked PII: %q", preview)
	}
}

func TestGetCaseContextDropsUnknown(t *testing.T) {
	s := newTestServer(t)
	textPayload(t, call(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"add_case","arguments":{"content":"ICM-701: syslog forwarding stopped on every host"}}}`), &map[string]string{})

	var export engine.ContextExport
	textPayload(t, call(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get_case_context","arguments":{"caseIds":["ICM-701","NOPE-1"]}}}`), &export)
	if export.Count != 1 || export.Cases[0].CaseID != "ICM-701" {
		t.Errorf("export = %+v, want only ICM-701", export)
	}
}

func TestAddCaseEmptyContentIsError(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"add_case","arguments":{"content":"  "}}}`)
	if resp.Error == nil || resp.Error.Code != codeToolFailed {
		t.Errorf("empty content response = %+v, want tool error", resp.Error)
	}
}

func TestSearchEmptyQueryIsError(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"search_cases","arguments":{"query":""}}}`)
	if resp.Error == nil {
		t.Error("empty query should be an error")
	}
}

func TestUnknownToolIsError(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"hub_execute","arguments":{}}}`)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("unknown tool response = %+v, want -32602", resp.Error)
	}
}

func TestRunOverPipes(t *testing.T) {
	s := newTestServer(t)
	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var out strings.Builder

	if err := s.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 response lines, got %d: %q", len(lines), out.String())
	}
	for _, line := range lines {
		var resp Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Errorf("response line is not JSON: %q", line)
		}
	}
}
