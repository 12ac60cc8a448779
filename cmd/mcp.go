package cmd

import (
	"github.com/huangsam/netseries/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the netseries MCP server",
	Long:  `Launch an MCP server that allows AI agents to extract network series via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		// Only merge defaults here; each tool call validates its own arguments
		return readInput(args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, input)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
