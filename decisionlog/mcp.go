// CLAUDE:SUMMARY Registers decisionlog promote/list/get/rescore/delete tools on an MCP server.
package decisionlog

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/dnav/distill"
	"github.com/hazyhaar/dnav/kit"
)

// RegisterMCP registers decision log tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerPromoteTool(srv)
	s.registerListTool(srv)
	s.registerGetTool(srv)
	s.registerRescoreTool(srv)
	s.registerDeleteTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var varsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"impact":     map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"cost":       map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"risk":       map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"urgency":    map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"confidence": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
	},
	"required": []string{"impact", "cost", "risk", "urgency", "confidence"},
}

// --- promote ---

type promoteReq struct {
	Candidate distill.Candidate `json:"candidate"`
	Vars      ScoreVars         `json:"vars"`
}

func (s *Service) registerPromoteTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "decisionlog_promote",
		Description: "Promote an extracted decision candidate into the persisted decision log with score variables.",
		InputSchema: inputSchema(map[string]any{
			"candidate": map[string]any{"type": "object", "description": "Candidate as returned by distill_run"},
			"vars":      varsSchema,
		}, []string{"candidate", "vars"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*promoteReq)
		return s.Promote(ctx, r.Candidate, r.Vars)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r promoteReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- list ---

func (s *Service) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "decisionlog_list",
		Description: "List all logged decisions with their derived metrics, newest first.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		entries, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"entries": entries}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- get ---

type idReq struct {
	ID string `json:"id"`
}

func (s *Service) registerGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "decisionlog_get",
		Description: "Fetch one logged decision by id.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*idReq)
		return s.Get(ctx, r.ID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeIDReq)
}

// --- rescore ---

type rescoreReq struct {
	ID   string    `json:"id"`
	Vars ScoreVars `json:"vars"`
}

func (s *Service) registerRescoreTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "decisionlog_rescore",
		Description: "Replace the score variables of a logged decision; derived metrics follow.",
		InputSchema: inputSchema(map[string]any{
			"id":   map[string]any{"type": "string"},
			"vars": varsSchema,
		}, []string{"id", "vars"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*rescoreReq)
		return s.Rescore(ctx, r.ID, r.Vars)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r rescoreReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- delete ---

func (s *Service) registerDeleteTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "decisionlog_delete",
		Description: "Delete a logged decision by id.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*idReq)
		if err := s.Delete(ctx, r.ID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": r.ID}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeIDReq)
}

func decodeIDReq(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r idReq
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}
