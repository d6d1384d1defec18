// Package mcp implements the Model Context Protocol server over stdio.
package mcp

import (
	"encoding/json"
)

// JSON-RPC 2.0 structures

const jsonrpcVersion = "2.0"

// Request represents a decoded JSON-RPC 2.0 request.
//
// ID is kept as the raw JSON token so it can be echoed back untouched.
// A nil ID means the request carried none; it is answered with null.
type Request struct {
	JSONRPC string
	ID      json.RawMessage
	Method  string
	Params  json.RawMessage

	// rawMethod holds the literal JSON of a non-string method value.
	rawMethod string
}

// MethodName returns the method as it should appear in error messages.
func (r *Request) MethodName() string {
	if r.rawMethod != "" {
		return r.rawMethod
	}
	return r.Method
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string
	ID      json.RawMessage
	Result  interface{}
	Error   *RPCError
}

// RPCError represents a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Method is the closed set of methods the server understands.
type Method int

const (
	MethodUnknown Method = iota
	MethodInitialize
	MethodToolsList
	MethodToolsCall
)

// ParseMethod maps a method name to a Method. Matching is exact and
// case-sensitive; anything else, including "", is MethodUnknown.
func ParseMethod(name string) Method {
	switch name {
	case "initialize":
		return MethodInitialize
	case "tools/list":
		return MethodToolsList
	case "tools/call":
		return MethodToolsCall
	default:
		return MethodUnknown
	}
}

func (m Method) String() string {
	switch m {
	case MethodInitialize:
		return "initialize"
	case MethodToolsList:
		return "tools/list"
	case MethodToolsCall:
		return "tools/call"
	default:
		return "unknown"
	}
}

// MCP Protocol structures

// ServerInfo describes the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities describes what the server supports.
type Capabilities struct {
	Tools map[string]interface{} `json:"tools"`
}

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Tool describes an available MCP tool.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema describes the JSON schema for tool input.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single property in the schema.
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ToolCallParams are the parameters for tools/call.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`

	// rawName holds the literal JSON of a non-string name value.
	rawName string
}

// ToolName returns the tool name as it should appear in error messages.
func (p ToolCallParams) ToolName() string {
	if p.rawName != "" {
		return p.rawName
	}
	return p.Name
}

// ToolCallResult is the result of tools/call.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a content item in tool results.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}
