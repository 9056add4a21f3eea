package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/integral"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
	"github.com/ironsheep/wordtile-ocr/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "board_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramsError marks a tool call the server could not interpret.
type paramsError struct {
	msg string
}

func (e *paramsError) Error() string { return e.msg }

func invalidParams(format string, args ...interface{}) error {
	return &paramsError{msg: fmt.Sprintf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments and unknown tools return code -32602. Failures while
// running a tool return code -32000 with the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var pErr *paramsError
		if errors.As(err, &pErr) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		log.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "board_recognize":
		return s.handleBoardRecognize(args)
	case "board_layout":
		return s.handleBoardLayout(args)
	case "board_overlay":
		return s.handleBoardOverlay(args)
	case "board_collage":
		return s.handleBoardCollage(args)
	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals args into v and checks that a path was given.
func decodeArgs(args json.RawMessage, v interface{}, path *string) error {
	if len(args) == 0 {
		return invalidParams("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return invalidParams("invalid arguments: %v", err)
	}
	if *path == "" {
		return invalidParams("path is required")
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Board Handlers ===

// recognizeResult is the board_recognize response. The grids are given
// as text lines; Detail carries the stats and boxes.
type recognizeResult struct {
	PassID string      `json:"pass_id"`
	Tiles  []string    `json:"tiles"`
	Rack   string      `json:"rack"`
	Bonus  []string    `json:"bonus"`
	Detail *ocr.Result `json:"detail"`
}

func (s *Server) recognize(path string) (*imaging.Screenshot, *ocr.Result, error) {
	shot, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.rec.Recognize(shot.Gray)
	if err != nil {
		return nil, nil, err
	}
	return shot, res, nil
}

func (s *Server) handleBoardRecognize(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}

	passID := uuid.New().String()
	logger := log.WithFields(log.Fields{"pass_id": passID, "path": a.Path})

	_, res, err := s.recognize(a.Path)
	if err != nil {
		logger.WithError(err).Info("recognition failed")
		return nil, fmt.Errorf("pass %s: %w", passID, err)
	}
	logger.WithFields(log.Fields{
		"tiles": len(res.TileStats),
		"rack":  res.Rack.String(),
	}).Info("board recognized")

	return &recognizeResult{
		PassID: passID,
		Tiles:  res.Tiles.Lines(""),
		Rack:   res.Rack.String(),
		Bonus:  res.Bonus.Lines(" "),
		Detail: res,
	}, nil
}

type box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func boxOf(r image.Rectangle) box {
	return box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

type layoutResult struct {
	Screen     box               `json:"screen"`
	Board      box               `json:"board"`
	Rack       box               `json:"rack"`
	CellWidth  int               `json:"cell_width"`
	CellHeight int               `json:"cell_height"`
	Rows       []layout.Interval `json:"rows"`
	Cols       []layout.Interval `json:"cols"`
	RackRows   []layout.Interval `json:"rack_rows"`
	RackCols   []layout.Interval `json:"rack_cols"`
}

func (s *Server) segment(path string) (*imaging.Screenshot, *layout.Layout, error) {
	shot, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	l, err := layout.Segment(integral.New(shot.Gray))
	if err != nil {
		return nil, nil, err
	}
	return shot, l, nil
}

func (s *Server) handleBoardLayout(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	_, l, err := s.segment(a.Path)
	if err != nil {
		return nil, err
	}
	cell := l.CellSize()
	return &layoutResult{
		Screen:     boxOf(l.Screen),
		Board:      boxOf(l.Board),
		Rack:       boxOf(l.Rack),
		CellWidth:  cell.X,
		CellHeight: cell.Y,
		Rows:       l.Rows,
		Cols:       l.Cols,
		RackRows:   l.RackRows,
		RackCols:   l.RackCols,
	}, nil
}

type boardOverlayArgs struct {
	Path   string  `json:"path"`
	Labels bool    `json:"labels"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleBoardOverlay(args json.RawMessage) (interface{}, error) {
	var a boardOverlayArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	shot, l, err := s.segment(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Overlay(shot.Gray, l, imaging.OverlayOptions{Labels: a.Labels})
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(img, a.Scale)
}

type boardCollageArgs struct {
	Path    string  `json:"path"`
	MaxRows int     `json:"max_rows"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleBoardCollage(args json.RawMessage) (interface{}, error) {
	var a boardCollageArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.MaxRows < 0 {
		return nil, invalidParams("max_rows must not be negative")
	}
	shot, res, err := s.recognize(a.Path)
	if err != nil {
		return nil, err
	}
	cells := res.TileCells()
	if len(cells) == 0 {
		return nil, fmt.Errorf("no tiles found in %s", a.Path)
	}
	return imaging.EncodePNG(imaging.Collage(shot.Gray, cells, a.MaxRows), a.Scale)
}
