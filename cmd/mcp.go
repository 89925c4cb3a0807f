/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/mcp"
	"github.com/tempoflow-ai/tempoflow/internal/mcpcfg"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server on stdio so AI assistants such
as Claude Desktop or Cursor can read and update your tasks and focus data.

Tools: list_tasks, add_task, toggle_task, record_session, productivity_score.

Example client configuration:
  {"command": "tempoflow", "args": ["mcp"]}

The server will run until the client disconnects.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q\nRun '%s --help' for usage", args[0], cmd.CommandPath(), cmd.Root().Name())
		}
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		return mcp.Run(cmd.Context(), a, GetVersion())
	},
}

var mcpInstallBinary string

var mcpInstallCmd = &cobra.Command{
	Use:   "install <claude-desktop|cursor|vscode>",
	Short: "Register TempoFlow in an AI client's MCP config",
	Long: `Add a "tempoflow" entry to the client's MCP server list, keeping any
servers already configured there. VS Code is configured for the current
directory (.vscode/mcp.json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := mcpcfg.ParseTarget(args[0])
		if err != nil {
			return err
		}
		bin, err := installBinary()
		if err != nil {
			return err
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path, err := mcpcfg.Install(afero.NewOsFs(), target, bin, home, cwd)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]string{"client": string(target), "path": path, "command": bin})
		}
		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("Registered %s in %s", mcpcfg.ServerName, path)))
		if !isQuiet() {
			fmt.Println(ui.StyleSubtle.Render("Restart the client to pick up the change."))
		}
		return nil
	},
}

// installBinary is the command clients launch: the flag value or this executable.
func installBinary() (string, error) {
	if mcpInstallBinary != "" {
		return filepath.Abs(mcpInstallBinary)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate tempoflow binary: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

func init() {
	mcpInstallCmd.Flags().StringVar(&mcpInstallBinary, "binary", "", "path to the tempoflow binary (default: this executable)")
	mcpCmd.AddCommand(mcpInstallCmd)
	rootCmd.AddCommand(mcpCmd)
}
