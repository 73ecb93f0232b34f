// Package tools implements the MCP tool handlers.
//
// Each tool is a struct that receives its dependencies (the engine, the
// metrics recorder) and exposes Definition/Handle, one file per tool.
// Caller mistakes (missing arguments, a malformed threshold, packaging
// a non-escalated analysis) come back as structured tool error
// results, never as protocol-level faults.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// decodeObjectArg extracts an object argument into out. It accepts
// either a JSON object or a JSON-encoded string, since hosts differ in
// how they pass structured arguments through.
func decodeObjectArg(req mcp.CallToolRequest, key string, out any) error {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return fmt.Errorf("'%s' is required", key)
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("reading '%s': %v", key, err)
		}
		data = encoded
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing '%s': %v", key, err)
	}
	return nil
}
