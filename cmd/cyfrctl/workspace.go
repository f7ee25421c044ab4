package main

import (
	"fmt"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var workspaceDescription string

func init() {
	workspaceCreateCmd.Flags().StringVar(&workspaceDescription, "description", "", "workspace description")

	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
	workspaceCmd.AddCommand(workspaceMembersCmd)
	workspaceCmd.AddCommand(workspaceAddMemberCmd)
	workspaceCmd.AddCommand(workspaceRemoveMemberCmd)
}

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces you belong to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaces, err := newClient().ListWorkspaces(cmd.Context())
		if err != nil {
			return err
		}
		if len(workspaces) == 0 {
			fmt.Println("No workspaces")
			return nil
		}
		for _, ws := range workspaces {
			desc := ""
			if ws.Description != nil {
				desc = "  " + *ws.Description
			}
			fmt.Printf("%s  %-20s %s%s\n", ws.ID, ws.Name, ws.Role, desc)
		}
		return nil
	},
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.CreateWorkspaceRequest{Name: args[0]}
		if workspaceDescription != "" {
			req.Description = &workspaceDescription
		}
		ws, err := newClient().CreateWorkspace(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Created workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		if err := newClient().DeleteWorkspace(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Workspace deleted")
		return nil
	},
}

var workspaceMembersCmd = &cobra.Command{
	Use:   "members <id>",
	Short: "List workspace members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		members, err := newClient().ListMembers(cmd.Context(), id)
		if err != nil {
			return err
		}
		for _, m := range members {
			fmt.Printf("%s  %-8s %s\n", m.UserID, m.Role, m.DisplayName)
		}
		return nil
	},
}

var workspaceAddMemberCmd = &cobra.Command{
	Use:   "add-member <workspaceId> <userId>",
	Short: "Add a member to a workspace (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		userID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		if err := newClient().AddMember(cmd.Context(), workspaceID, userID); err != nil {
			return err
		}
		fmt.Println("Member added")
		return nil
	},
}

var workspaceRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <workspaceId> <userId>",
	Short: "Remove a member from a workspace (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace id: %w", err)
		}
		userID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		if err := newClient().RemoveMember(cmd.Context(), workspaceID, userID); err != nil {
			return err
		}
		fmt.Println("Member removed")
		return nil
	},
}
