package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/cyfrhq/cyfr-api/pkg/board"
	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	taskDescription string
	taskPriority    string
	taskDueDate     string
	taskAssignees   []string
)

func init() {
	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "task priority (low, normal, high)")
	taskAddCmd.Flags().StringVar(&taskDueDate, "due", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringSliceVar(&taskAssignees, "assignee", nil, "initial assignee user id (repeatable)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskAssignCmd)
	taskCmd.AddCommand(taskUnassignCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

var boardCmd = &cobra.Command{
	Use:   "board <projectId>",
	Short: "Render a project's task board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id: %w", err)
		}

		b := board.New(cmd.Context(), newClient(), projectID)
		defer b.Close()

		if err := b.Load(); err != nil {
			return err
		}

		names := make(map[uuid.UUID]string)
		for _, m := range b.Members() {
			names[m.UserID] = m.DisplayName
		}

		fmt.Printf("%s\n\n", b.Project().Name)
		lanes := b.Lanes()
		printLane("TODO", lanes.Todo, names)
		printLane("IN PROGRESS", lanes.InProgress, names)
		printLane("DONE", lanes.Done, names)
		return nil
	},
}

func printLane(label string, tasks []dto.TaskResponse, names map[uuid.UUID]string) {
	fmt.Printf("== %s (%d)\n", label, len(tasks))
	for _, t := range tasks {
		line := fmt.Sprintf("  %s  %s", t.ID, t.Title)
		if len(t.Assignees) > 0 {
			labels := make([]string, len(t.Assignees))
			for i, id := range t.Assignees {
				if name, ok := names[id]; ok {
					labels[i] = name
				} else {
					labels[i] = id.String()[:8]
				}
			}
			line += "  [" + strings.Join(labels, ", ") + "]"
		}
		fmt.Println(line)
	}
	fmt.Println()
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <projectId> <title>",
	Short: "Create a task (starts in todo)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id: %w", err)
		}

		req := dto.CreateTaskRequest{Title: args[1]}
		if taskDescription != "" {
			req.Description = &taskDescription
		}
		if taskPriority != "" {
			req.Priority = &taskPriority
		}
		if taskDueDate != "" {
			due, err := time.Parse("2006-01-02", taskDueDate)
			if err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
			req.DueDate = &due
		}
		for _, raw := range taskAssignees {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid assignee id %q: %w", raw, err)
			}
			req.Assignees = append(req.Assignees, id)
		}

		b := board.New(cmd.Context(), newClient(), projectID)
		defer b.Close()
		if err := b.Load(); err != nil {
			return err
		}

		task, err := b.CreateTask(req)
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s (%s)\n", task.Title, task.ID)
		return nil
	},
}

// boardForTask resolves the task's project and returns a loaded board over it.
func boardForTask(cmd *cobra.Command, rawID string) (*board.Board, uuid.UUID, error) {
	taskID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid task id: %w", err)
	}

	c := newClient()
	task, err := c.GetTask(cmd.Context(), taskID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	b := board.New(cmd.Context(), c, task.ProjectID)
	if err := b.Load(); err != nil {
		b.Close()
		return nil, uuid.Nil, err
	}
	return b, taskID, nil
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <taskId> <status>",
	Short: "Move a task to another lane (todo, in_progress, done)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, taskID, err := boardForTask(cmd, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.Move(taskID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Task moved to %s\n", args[1])
		return nil
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign <taskId> <userId>",
	Short: "Assign a workspace member to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleAssignee(cmd, args, true) },
}

var taskUnassignCmd = &cobra.Command{
	Use:   "unassign <taskId> <userId>",
	Short: "Remove an assignee from a task",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleAssignee(cmd, args, false) },
}

func toggleAssignee(cmd *cobra.Command, args []string, assigned bool) error {
	userID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	b, taskID, err := boardForTask(cmd, args[0])
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.ToggleAssignee(taskID, userID, assigned); err != nil {
		return err
	}
	if assigned {
		fmt.Println("Assignee added")
	} else {
		fmt.Println("Assignee removed")
	}
	return nil
}

var taskDeleteCmd = &cobra.Command{
	Use:   "rm <taskId>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, taskID, err := boardForTask(cmd, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.DeleteTask(taskID); err != nil {
			return err
		}
		fmt.Println("Task deleted")
		return nil
	},
}
