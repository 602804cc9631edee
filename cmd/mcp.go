package cmd

import (
	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve read-only progress and report tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s := mcpserver.New(version, mcpserver.Deps{
			Store:        e.store,
			UserName:     e.settings.UserName,
			DefaultScore: e.settings.DefaultScore,
			Logger:       e.logger.Named("mcp"),
		})
		return mcpserver.Serve(s)
	},
}
