/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/logger"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

var crashLogsCmd = &cobra.Command{
	Use:    "crashlogs",
	Short:  "List crash reports, or print the newest with --last",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := logger.ListCrashLogs()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			if isJSON() {
				return printJSON([]string{})
			}
			fmt.Println("No crash reports.")
			return nil
		}

		if crashLast {
			log, err := logger.ReadCrashLog(paths[len(paths)-1])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(log)
			}
			fmt.Printf("%s  %s  %s\n", log.Timestamp.Format("2006-01-02 15:04:05"), log.Version, log.Command)
			fmt.Println(ui.StyleError.Render("panic: " + log.PanicValue))
			fmt.Println(log.StackTrace)
			return nil
		}

		if isJSON() {
			return printJSON(paths)
		}
		for _, p := range paths {
			fmt.Println(filepath.Base(p))
		}
		return nil
	},
}

var crashLast bool

func init() {
	rootCmd.AddCommand(crashLogsCmd)
	crashLogsCmd.Flags().BoolVar(&crashLast, "last", false, "print the newest report")
}
