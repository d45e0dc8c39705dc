// Package model defines data structures for memos-mcp.
//
// This package contains:
//   - Config: server configuration (immutable after load)
//   - JSON-RPC 2.0: request/response/error structures
//   - MCP: initialize/tools/resources structures
package model
