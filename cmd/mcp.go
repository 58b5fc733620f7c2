package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/config"
	"github.com/abhisek/algoquest/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio for AI assistants",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		c, closeCache, err := historyCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		return mcpserver.New(version, c).Serve()
	},
}
