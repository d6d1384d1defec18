package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/johncarpenter/rakuten-mcp/internal/config"
	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
	"github.com/johncarpenter/rakuten-mcp/internal/tools"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := mcp.NewRegistry()
			if err := tools.Register(reg, &config.Config{}); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARGUMENTS\tDESCRIPTION")
			for _, t := range reg.Tools() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, formatArgs(t.InputSchema), t.Description)
			}
			return w.Flush()
		},
	}
}

// formatArgs lists schema properties, required ones first, marking
// optional ones with a trailing "?".
func formatArgs(s mcp.InputSchema) string {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	for i, name := range names {
		if !required[name] {
			names[i] = name + "?"
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
