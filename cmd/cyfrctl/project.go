package main

import (
	"fmt"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	projectCode        string
	projectDescription string
	projectAddress     string
)

func init() {
	projectCreateCmd.Flags().StringVar(&projectCode, "code", "", "project code")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "project description")
	projectCreateCmd.Flags().StringVar(&projectAddress, "address", "", "project address")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"proj"},
	Short:   "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list <workspaceId>",
	Short: "List a workspace's projects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		projects, err := newClient().ListProjects(cmd.Context(), workspaceID)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects")
			return nil
		}
		for _, p := range projects {
			code := ""
			if p.Code != nil {
				code = *p.Code
			}
			fmt.Printf("%s  %-8s %s\n", p.ID, code, p.Name)
		}
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <workspaceId> <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		req := dto.CreateProjectRequest{Name: args[1]}
		if projectCode != "" {
			req.Code = &projectCode
		}
		if projectDescription != "" {
			req.Description = &projectDescription
		}
		if projectAddress != "" {
			req.Address = &projectAddress
		}
		project, err := newClient().CreateProject(cmd.Context(), workspaceID, req)
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id: %w", err)
		}
		if err := newClient().DeleteProject(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Project deleted")
		return nil
	},
}
