// Package board holds the in-memory state of a project's task board: the
// ordered task collection, its partition into status lanes, and the workspace
// member candidates offered when assigning tasks. All mutations are
// optimistic; a failed remote write is reconciled by re-reading the whole
// task collection rather than by per-field rollback.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound  = errors.New("task not on board")
	ErrInvalidStatus = errors.New("invalid status")
	ErrEmptyTitle    = errors.New("title is required")
)

// Member is an assignee candidate with a resolved display name.
type Member struct {
	UserID      uuid.UUID
	DisplayName string
}

type Board struct {
	gw        Gateway
	projectID uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	project *dto.ProjectResponse
	tasks   []dto.TaskResponse
	members []Member
	lanes   Lanes
}

// New creates an empty board for the project. Remote calls made by the board
// are bound to ctx; Close cancels them.
func New(ctx context.Context, gw Gateway, projectID uuid.UUID) *Board {
	ctx, cancel := context.WithCancel(ctx)
	return &Board{
		gw:        gw,
		projectID: projectID,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close cancels any in-flight loads. The board's last applied state remains
// readable.
func (b *Board) Close() {
	b.cancel()
}

// Load fetches the project, its tasks, and then the workspace's member
// candidates. The member fetch depends on the workspace id resolved from the
// project, so it never runs ahead of the project fetch. A load that loses the
// race to a newer load discards its results.
func (b *Board) Load() error {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	project, err := b.gw.GetProject(b.ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	tasks, err := b.gw.ListTasks(b.ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	b.apply(gen, func() {
		b.project = project
		b.setTasks(tasks)
	})

	members, err := b.loadMembers(project.WorkspaceID)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	b.apply(gen, func() {
		b.members = members
	})

	return nil
}

func (b *Board) loadMembers(workspaceID uuid.UUID) ([]Member, error) {
	ids, err := b.gw.ListMemberIDs(b.ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, len(ids))
	for i, id := range ids {
		members[i] = Member{UserID: id, DisplayName: placeholderName(id)}
	}
	if len(ids) == 0 {
		return members, nil
	}

	// A failed name lookup keeps the placeholder labels instead of failing
	// the whole view.
	profiles, err := b.gw.LookupProfiles(b.ctx, ids)
	if err != nil {
		return members, nil
	}

	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		if name := profileName(p); name != "" {
			names[p.ID] = name
		}
	}
	for i := range members {
		if name, ok := names[members[i].UserID]; ok {
			members[i].DisplayName = name
		}
	}
	return members, nil
}

// CreateTask inserts the task remotely and appends the result, with whatever
// assignees the store actually recorded, to local state. Creation is not
// optimistic: a failed insert leaves the board untouched.
func (b *Board) CreateTask(req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	task, err := b.gw.CreateTask(b.ctx, b.projectID, req)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.tasks = append(b.tasks, *task)
	b.lanes = Partition(b.tasks)
	b.mu.Unlock()
	return task, nil
}

// Move rewrites the task's status locally, then persists it. Dropping a task
// back into its own lane makes no write at all.
func (b *Board) Move(taskID uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	b.mu.Lock()
	idx := b.indexOf(taskID)
	if idx < 0 {
		b.mu.Unlock()
		return ErrTaskNotFound
	}
	if b.tasks[idx].Status == status {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	return b.mutate(
		func(tasks []dto.TaskResponse) []dto.TaskResponse {
			for i := range tasks {
				if tasks[i].ID == taskID {
					tasks[i].Status = status
				}
			}
			return tasks
		},
		func(ctx context.Context) error {
			return b.gw.UpdateTaskStatus(ctx, taskID, status)
		},
	)
}

// ToggleAssignee sets or clears the user's membership in the task's assignee
// set. The local update has set semantics, so repeated adds cannot introduce
// duplicates and repeated removes stay idempotent.
func (b *Board) ToggleAssignee(taskID, userID uuid.UUID, assigned bool) error {
	b.mu.Lock()
	if b.indexOf(taskID) < 0 {
		b.mu.Unlock()
		return ErrTaskNotFound
	}
	b.mu.Unlock()

	return b.mutate(
		func(tasks []dto.TaskResponse) []dto.TaskResponse {
			for i := range tasks {
				if tasks[i].ID != taskID {
					continue
				}
				if assigned {
					tasks[i].Assignees = addID(tasks[i].Assignees, userID)
				} else {
					tasks[i].Assignees = removeID(tasks[i].Assignees, userID)
				}
			}
			return tasks
		},
		func(ctx context.Context) error {
			if assigned {
				return b.gw.AddAssignee(ctx, taskID, userID)
			}
			return b.gw.RemoveAssignee(ctx, taskID, userID)
		},
	)
}

// DeleteTask removes the task locally, then issues the delete. A rejected
// delete is undone by the reconciling re-fetch.
func (b *Board) DeleteTask(taskID uuid.UUID) error {
	b.mu.Lock()
	if b.indexOf(taskID) < 0 {
		b.mu.Unlock()
		return ErrTaskNotFound
	}
	b.mu.Unlock()

	return b.mutate(
		func(tasks []dto.TaskResponse) []dto.TaskResponse {
			kept := tasks[:0]
			for _, t := range tasks {
				if t.ID != taskID {
					kept = append(kept, t)
				}
			}
			return kept
		},
		func(ctx context.Context) error {
			return b.gw.DeleteTask(ctx, taskID)
		},
	)
}

// mutate is the single optimistic-update path: apply the local change,
// commit it remotely, and on failure replace local state wholesale from an
// authoritative re-read. The commit error is returned either way.
func (b *Board) mutate(apply func(tasks []dto.TaskResponse) []dto.TaskResponse, commit func(ctx context.Context) error) error {
	b.mu.Lock()
	b.tasks = apply(b.tasks)
	b.lanes = Partition(b.tasks)
	b.mu.Unlock()

	if err := commit(b.ctx); err != nil {
		b.reconcile()
		return err
	}
	return nil
}

// reconcile discards local task state in favor of the store's. If even the
// re-read fails, the optimistic state stands until the next successful load.
func (b *Board) reconcile() {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	tasks, err := b.gw.ListTasks(b.ctx, b.projectID)
	if err != nil {
		return
	}
	b.apply(gen, func() {
		b.setTasks(tasks)
	})
}

// apply runs fn under the lock unless a newer load has superseded gen.
func (b *Board) apply(gen uint64, fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	fn()
	return true
}

func (b *Board) setTasks(tasks []dto.TaskResponse) {
	b.tasks = tasks
	b.lanes = Partition(b.tasks)
}

// indexOf must be called with the lock held.
func (b *Board) indexOf(taskID uuid.UUID) int {
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (b *Board) Project() *dto.ProjectResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.project
}

// Tasks returns a snapshot of the collection in creation order.
func (b *Board) Tasks() []dto.TaskResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dto.TaskResponse(nil), b.tasks...)
}

func (b *Board) Lanes() Lanes {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lanes
}

func (b *Board) Members() []Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Member(nil), b.members...)
}

func addID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

func profileName(p dto.ProfileResponse) string {
	var parts []string
	if p.FirstName != nil && *p.FirstName != "" {
		parts = append(parts, *p.FirstName)
	}
	if p.SecondName != nil && *p.SecondName != "" {
		parts = append(parts, *p.SecondName)
	}
	return strings.Join(parts, " ")
}

func placeholderName(id uuid.UUID) string {
	return "user " + id.String()[:8]
}
