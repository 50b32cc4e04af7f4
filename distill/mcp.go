// CLAUDE:SUMMARY Registers distill_run and distill_memo tools on an MCP server.
package distill

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/dnav/kit"
)

// RegisterMCP registers distill tools on an MCP server.
func (d *Distiller) RegisterMCP(srv *mcp.Server) {
	d.registerRunTool(srv)
	d.registerMemoTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- run ---

type runReq struct {
	Sources []Source `json:"sources"`
}

func (d *Distiller) registerRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "distill_run",
		Description: "Extract decision candidates from per-page document text.",
		InputSchema: inputSchema(map[string]any{
			"sources": map[string]any{
				"type":        "array",
				"description": "Documents as {name, pages:[{page,text}]}",
			},
		}, []string{"sources"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*runReq)
		return d.Run(ctx, r.Sources, nil)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r runReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- memo ---

type memoReq struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

func (d *Distiller) registerMemoTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "distill_memo",
		Description: "Extract decision candidates from a pasted memo (plain text or HTML).",
		InputSchema: inputSchema(map[string]any{
			"label": map[string]any{"type": "string", "description": "Memo label used in evidence"},
			"text":  map[string]any{"type": "string", "description": "Plain-text memo body"},
			"html":  map[string]any{"type": "string", "description": "HTML memo body (sanitized and converted)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*memoReq)
		label := r.Label
		if label == "" {
			label = "memo"
		}
		text := r.Text
		if text == "" && r.HTML != "" {
			converted, err := MemoFromHTML(r.HTML)
			if err != nil {
				return nil, err
			}
			text = converted
		}
		return d.DistillText(ctx, label, text)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r memoReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
