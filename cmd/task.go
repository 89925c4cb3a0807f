/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/logger"
	"github.com/tempoflow-ai/tempoflow/internal/task"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage tasks",
	Long: `Add, list, complete, edit and delete tasks.

Task IDs can be shortened to any unique prefix, with or without "task-".

Examples:
  tempoflow task add "Write report" --priority high --due 2025-06-20
  tempoflow task list --open
  tempoflow task done 3f2a`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		logger.SetLastInput(title)

		priority, err := task.ParsePriority(taskPriority)
		if err != nil {
			return err
		}
		due, err := parseDueFlag(taskDue)
		if err != nil {
			return err
		}

		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		t, err := a.Tasks.Add(cmd.Context(), title, taskDescription, priority, due)
		if err != nil {
			return err
		}
		return printTask(t, "Added")
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f task.Filter
		switch {
		case taskOpen && taskDone:
			return fmt.Errorf("--open and --done are mutually exclusive")
		case taskOpen:
			open := false
			f.Completed = &open
		case taskDone:
			done := true
			f.Completed = &done
		}
		if listPriority != "" {
			p, err := task.ParsePriority(listPriority)
			if err != nil {
				return err
			}
			f.Priority = p
		}

		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		var tasks []task.Task
		if taskOpen && f.Priority == "" {
			tasks, err = a.Tasks.Pending(cmd.Context())
		} else {
			tasks, err = a.Tasks.List(cmd.Context(), f)
		}
		if err != nil {
			return err
		}

		if isJSON() {
			return printJSON(tasks)
		}
		if len(tasks) == 0 {
			if !isQuiet() {
				fmt.Println("No tasks found. Add one with 'tempoflow task add <title>'.")
			}
			return nil
		}
		fmt.Println(ui.RenderTasks(tasks, a.Now()))
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		t, err := resolveTask(cmd, a, args[0])
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(t)
		}
		fmt.Println(ui.RenderTask(t))
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done (or reopen it with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		id, err := a.Tasks.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := a.Tasks.SetCompleted(cmd.Context(), id, !taskUndo)
		if err != nil {
			return err
		}
		verb := "Completed"
		if taskUndo {
			verb = "Reopened"
		}
		return printTask(t, verb)
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title, description, priority or due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e task.Edit
		flags := cmd.Flags()
		if flags.Changed("title") {
			e.Title = &editTitle
		}
		if flags.Changed("description") {
			e.Description = &editDescription
		}
		if flags.Changed("priority") {
			p, err := task.ParsePriority(editPriority)
			if err != nil {
				return err
			}
			e.Priority = &p
		}
		if flags.Changed("due") {
			due, err := parseDueFlag(editDue)
			if err != nil {
				return err
			}
			if due == nil {
				e.ClearDue = true
			} else {
				e.DueDate = due
			}
		}
		if e == (task.Edit{}) {
			return fmt.Errorf("nothing to change: pass --title, --description, --priority or --due")
		}

		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		id, err := a.Tasks.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := a.Tasks.Edit(cmd.Context(), id, e)
		if err != nil {
			return err
		}
		return printTask(t, "Updated")
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		t, err := resolveTask(cmd, a, args[0])
		if err != nil {
			return err
		}
		if !taskForce && !confirmOrAbort(fmt.Sprintf("Delete %q? [y/N]: ", t.Title)) {
			return nil
		}
		if err := a.Tasks.Delete(cmd.Context(), t.ID); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]any{"deleted": t.ID})
		}
		if !isQuiet() {
			fmt.Printf("Deleted %s\n", t.ID)
		}
		return nil
	},
}

var (
	taskDescription string
	taskPriority    string
	taskDue         string
	taskOpen        bool
	taskDone        bool
	taskUndo        bool
	taskForce       bool
	listPriority    string

	editTitle       string
	editDescription string
	editPriority    string
	editDue         string
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskDoneCmd, taskEditCmd, taskDeleteCmd)

	taskAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "task description")
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", "medium", "priority (low, medium, high)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")

	taskListCmd.Flags().BoolVar(&taskOpen, "open", false, "only open tasks, highest priority first")
	taskListCmd.Flags().BoolVar(&taskDone, "done", false, "only completed tasks")
	taskListCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "filter by priority")

	taskDoneCmd.Flags().BoolVar(&taskUndo, "undo", false, "reopen a completed task")

	taskEditCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	taskEditCmd.Flags().StringVarP(&editDescription, "description", "d", "", "new description")
	taskEditCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority")
	taskEditCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD), empty to clear")

	taskDeleteCmd.Flags().BoolVarP(&taskForce, "force", "f", false, "skip confirmation")
}

// parseDueFlag returns nil for an empty value.
func parseDueFlag(s string) (*task.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := task.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)
	}
	return &d, nil
}

func resolveTask(cmd *cobra.Command, a *app.Context, idOrPrefix string) (task.Task, error) {
	id, err := a.Tasks.Resolve(cmd.Context(), idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}
	return a.Tasks.Get(cmd.Context(), id)
}

func printTask(t task.Task, verb string) error {
	if isJSON() {
		return printJSON(t)
	}
	if isQuiet() {
		fmt.Println(t.ID)
		return nil
	}
	fmt.Println(ui.StyleSuccess.Render("✓ " + verb + " task"))
	fmt.Println(ui.RenderTask(t))
	return nil
}
