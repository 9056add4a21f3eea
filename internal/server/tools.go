package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the screenshot file",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a screenshot and return its dimensions and format. The decoded image is cached for later board_* calls on the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_recognize",
			Description: "Read the 15x15 tile board, the bonus squares and the rack from a game screenshot. Board tiles are lowercase letters, wildcards uppercase, blanks '*' and empty cells '.'. Bonus squares are dl, dw, tl, tw, ss (start) or --.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_layout",
			Description: "Locate the board and rack in a screenshot and return their bounding boxes and the pixel intervals of every row and column.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_overlay",
			Description: "Draw the detected row, column and rack intervals over the screenshot and return it as base64-encoded PNG. Use this to check why a screenshot was misread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw row and column indices on the board",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_collage",
			Description: "Return a base64-encoded PNG collage of every tile found on the board followed by the rack tiles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"max_rows": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of collage rows. 0 means no limit",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
