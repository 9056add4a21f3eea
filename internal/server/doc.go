// Package server implements the MCP (Model Context Protocol) server for
// word game board recognition.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load a screenshot and get its metadata
//   - board_recognize: Read tiles, bonus squares and rack
//   - board_layout: Board and rack boxes with row and column intervals
//   - board_overlay: Screenshot with the intervals drawn on it
//   - board_collage: All tiles found, side by side
//
// Every board_recognize call gets a pass_id that also appears in the log
// lines of that call.
//
// # Image Caching
//
// Decoded screenshots are cached by path for the lifetime of the process,
// so several tools can inspect the same file without decoding it again.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32601: unknown method
//   - -32602: malformed arguments, missing path or unknown tool
//   - -32000: the tool failed; data holds the error text, including the
//     segmentation state for screenshots whose board could not be found
package server
