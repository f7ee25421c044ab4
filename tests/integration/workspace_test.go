package integration

import (
	"context"
	"testing"

	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/cyfrhq/cyfr-api/internal/services"
	"github.com/cyfrhq/cyfr-api/tests/testutil"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceService_Integration_Create(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	ws, err := svc.Create(ctx, "Acme", nil, user.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "Acme", ws.Name)
	assert.Nil(t, ws.Description)
	assert.Equal(t, user.ID, ws.CreatedBy)

	// The creator's owner membership is written in the same transaction.
	members, err := svc.GetMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].UserID)
	assert.Equal(t, models.RoleOwner, members[0].Role)
}

func TestWorkspaceService_Integration_GetUserWorkspaces(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	user1 := fixtures.CreateUser(t)
	user2 := fixtures.CreateUser(t)

	first, err := svc.Create(ctx, "First", nil, user1.ID)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Second", nil, user1.ID)
	require.NoError(t, err)

	fixtures.AddWorkspaceMember(t, &models.Workspace{ID: second.ID}, user2)

	workspaces, roles, err := svc.GetUserWorkspaces(ctx, user1.ID)
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	// Creation ascending.
	assert.Equal(t, first.ID, workspaces[0].ID)
	assert.Equal(t, second.ID, workspaces[1].ID)
	assert.Equal(t, []string{models.RoleOwner, models.RoleOwner}, roles)

	workspaces2, roles2, err := svc.GetUserWorkspaces(ctx, user2.ID)
	require.NoError(t, err)
	require.Len(t, workspaces2, 1)
	assert.Equal(t, second.ID, workspaces2[0].ID)
	assert.Equal(t, models.RoleMember, roles2[0])
}

func TestWorkspaceService_Integration_AccessChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	stranger := fixtures.CreateUser(t)

	ws := fixtures.CreateWorkspace(t, owner)
	fixtures.AddWorkspaceMember(t, ws, member)

	for user, want := range map[*models.User]bool{owner: true, member: true, stranger: false} {
		ok, err := svc.CanAccess(ctx, ws.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}

	isOwner, err := svc.IsOwner(ctx, ws.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, isOwner)

	isOwner, err = svc.IsOwner(ctx, ws.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isOwner)
}

func TestWorkspaceService_Integration_RemoveMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)
	fixtures.AddWorkspaceMember(t, ws, member)

	// The owner can never be removed.
	err := svc.RemoveMember(ctx, ws.ID, owner.ID)
	assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)

	require.NoError(t, svc.RemoveMember(ctx, ws.ID, member.ID))

	err = svc.RemoveMember(ctx, ws.ID, member.ID)
	assert.ErrorIs(t, err, services.ErrMemberNotFound)
}

func TestWorkspaceService_Integration_DeleteCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewWorkspaceService(tdb.DB)
	taskSvc := services.NewTaskService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)
	project := fixtures.CreateProject(t, ws, owner)
	task := fixtures.CreateTask(t, project, owner)
	fixtures.AddTaskAssignee(t, task, owner)

	// Dependent projects and tasks do not block the delete; they go with it.
	require.NoError(t, svc.Delete(ctx, ws.ID))

	_, err := svc.GetByID(ctx, ws.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = taskSvc.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
