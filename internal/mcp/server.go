/*
Package mcp exposes the case engine over MCP stdio transport.

The server speaks newline-delimited JSON-RPC 2.0 on stdin/stdout and
offers three tools:
  - search_cases: rank cases against a query, returning a context export
  - get_case_context: fetch the context export for a list of case ids
  - add_case: ingest raw case text with an optional explicit id

Rehydration is deliberately not exposed here: external tools only ever
see redacted context envelopes.
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"casevault/internal/engine"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "casevault"
	serverVersion   = "0.1.0"
)

// Server binds the engine to the stdio JSON-RPC transport.
type Server struct {
	engine *engine.Engine
	limit  int
}

// NewServer wraps an engine. searchLimit caps search_cases results;
// zero means the engine's default.
func NewServer(eng *engine.Engine, searchLimit int) *Server {
	return &Server{engine: eng, limit: searchLimit}
}

// Run reads requests line by line until in is closed.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		resp := s.handleRequest(line)
		if resp != nil {
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
	return scanner.Err()
}

// Request is an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an outgoing JSON-RPC response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParse         = -32700
	codeMethodMissing = -32601
	codeInvalidParams = -32602
	codeToolFailed    = -32000
)

func (s *Server) handleRequest(data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return &Response{JSONRPC: "2.0", Error: &Error{Code: codeParse, Message: "parse error"}}
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: codeMethodMissing, Message: "method not found"},
		}
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": serverVersion,
			},
		},
	}
}

func (s *Server) handleToolsList(req *Request) *Response {
	tools := []map[string]interface{}{
		{
			"name":        "search_cases",
			"description": "Search stored support cases by free text. Returns a redacted context export of the best matches, ranked by field relevance (summary > error patterns > symptoms > tags > body).",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Free-text search query",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of cases to return",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name":        "get_case_context",
			"description": "Fetch the redacted context export for one or more case ids. Unknown ids are silently dropped from the result.",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"caseIds": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Case ids to export",
					},
				},
				"required": []string{"caseIds"},
			},
		},
		{
			"name":        "add_case",
			"description": "Ingest raw support case text. PII is redacted before storage; the resolved case id is returned.",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "Raw case text (incident summary, ticket body, logs)",
					},
					"caseId": map[string]interface{}{
						"type":        "string",
						"description": "Optional explicit case id; wins over any id detected in the content",
					},
				},
				"required": []string{"content"},
			},
		},
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]interface{}{"tools": tools},
	}
}

func (s *Server) handleToolsCall(req *Request) *Response {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: codeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)},
		}
	}

	var result interface{}
	var err error

	switch params.Name {
	case "search_cases":
		query, _ := params.Arguments["query"].(string)
		limit := intArg(params.Arguments, "limit", s.limit)
		result, err = s.execSearch(query, limit)
	case "get_case_context":
		ids := stringsArg(params.Arguments, "caseIds")
		result, err = s.execGetContext(ids)
	case "add_case":
		content, _ := params.Arguments["content"].(string)
		explicitID, _ := params.Arguments["caseId"].(string)
		result, err = s.execAddCase(content, explicitID)
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: codeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", params.Name)},
		}
	}

	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: codeToolFailed, Message: err.Error()},
		}
	}

	text, err := json.Marshal(result)
	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: codeToolFailed, Message: err.Error()},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": string(text)},
			},
		},
	}
}

func (s *Server) execSearch(query string, limit int) (*engine.ContextExport, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query must not be empty")
	}
	results := s.engine.Search(query, limit)
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.CaseID
	}
	return s.engine.ExportContext(ids), nil
}

func (s *Server) execGetContext(ids []string) (*engine.ContextExport, error) {
	if len(ids) == 0 {
		return nil, errors.New("caseIds must not be empty")
	}
	return s.engine.ExportContext(ids), nil
}

func (s *Server) execAddCase(content, explicitID string) (map[string]string, error) {
	id, err := s.engine.AddCase(content, explicitID)
	if err != nil {
		return nil, err
	}
	return map[string]string{"caseId": id}, nil
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func stringsArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
