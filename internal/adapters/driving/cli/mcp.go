package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server over stdio.

Assistants get the tools ask, ask_many, summarize, summarize_many,
index_exists and delete_index, and read document records from
lexrag://documents, lexrag://cases/{caseId}/documents and
lexrag://documents/{documentId}.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "lexrag": {
        "command": "/path/to/lexrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

// serveMCP is replaced in tests.
var serveMCP = func(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx)
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Query:    queryService,
		Summary:  summaryService,
		Index:    indexService,
		Document: documentService,
	})
	if err != nil {
		return err
	}

	return serveMCP(cmd.Context(), server)
}
