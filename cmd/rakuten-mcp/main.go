// Package main provides the entry point for rakuten-mcp.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rakuten-mcp",
		Short: "MCP server for Rakuten Ichiba item search",
		Long: `rakuten-mcp speaks the Model Context Protocol over stdio and exposes
Rakuten Ichiba item search as a tool.

Environment Variables:
  RAKUTEN_APPLICATION_ID   Rakuten Web Service application id
  RAKUTEN_API_ENDPOINT     Item search endpoint override
  MCP_LOG_PATH             Also write diagnostics to this file
  MCP_DEBUG                Log every request and tool call`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newToolsCmd(),
		newInstallCmd(),
		newUninstallCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rakuten-mcp %s\n", version)
		},
	}
}
