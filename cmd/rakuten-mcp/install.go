package main

import (
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/johncarpenter/rakuten-mcp/internal/installer"
	"github.com/johncarpenter/rakuten-mcp/internal/project"
)

func newInstaller() *installer.Installer {
	command, err := os.Executable()
	if err != nil {
		command = "rakuten-mcp"
	}
	return installer.NewInstaller(command, project.FindRoot())
}

func newInstallCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the server in the MCP settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst := newInstaller()
			opts := installer.InstallOptions{Global: global}
			out := cmd.OutOrStdout()

			if err := inst.Install(opts); err != nil {
				if errors.Is(err, installer.ErrAlreadyInstalled) {
					fmt.Fprintln(out, err.Error())
					return nil
				}
				return err
			}

			path, _ := inst.SettingsPath(opts)
			fmt.Fprintln(out, "rakuten-mcp installed successfully!")
			fmt.Fprintln(out, "Settings file:", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Equivalent manual configuration:")
			fmt.Fprintln(out, inst.GetMCPConfig())
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "install to user-level settings instead of project-level")
	return cmd
}

func newUninstallCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the server from the MCP settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst := newInstaller()
			if err := inst.Uninstall(installer.InstallOptions{Global: global}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rakuten-mcp uninstalled successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "uninstall from user-level settings")
	return cmd
}
