// Package driving defines the operations the CLI, TUI, MCP server and file
// watcher call on the core: ingesting documents, asking questions,
// summarising and managing indexes.
//
// Implementations live in internal/core/services.
package driving
