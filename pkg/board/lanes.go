package board

import "github.com/cyfrhq/cyfr-api/pkg/dto"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Lanes is the board's derived view: the task collection partitioned into the
// three canonical status columns, each preserving the collection's order.
type Lanes struct {
	Todo       []dto.TaskResponse
	InProgress []dto.TaskResponse
	Done       []dto.TaskResponse
}

// Partition groups tasks by status. A task whose status is not one of the
// canonical values lands in the todo lane; the task itself is not rewritten.
// The three lanes always sum to the input size.
func Partition(tasks []dto.TaskResponse) Lanes {
	var l Lanes
	for _, t := range tasks {
		switch t.Status {
		case StatusInProgress:
			l.InProgress = append(l.InProgress, t)
		case StatusDone:
			l.Done = append(l.Done, t)
		default:
			l.Todo = append(l.Todo, t)
		}
	}
	return l
}
