// Package mcp registers the gateway's operations as MCP tools. It is thin
// glue: each handler decodes the tool arguments, delegates to the gateway
// dispatcher, and returns the uniform envelope as JSON text content.
package mcp
