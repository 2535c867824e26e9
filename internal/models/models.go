package models

import (
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskStatus struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is always handed out fully resolved: status, author, executor and
// labels are loaded together with the task row.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TaskStatus  TaskStatus `json:"taskStatus"`
	Author      User       `json:"author"`
	Executor    *User      `json:"executor"`
	Labels      []Label    `json:"labels"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LabelIDs returns the ids of the labels attached to the task.
func (t Task) LabelIDs() []int64 {
	ids := make([]int64, 0, len(t.Labels))
	for _, l := range t.Labels {
		ids = append(ids, l.ID)
	}
	return ids
}

// TaskFilter narrows a task listing. Nil fields are not applied; set fields
// are combined with AND.
type TaskFilter struct {
	AuthorID   *int64
	ExecutorID *int64
	StatusID   *int64
	LabelID    *int64
}

// IsEmpty reports whether no field is set.
func (f TaskFilter) IsEmpty() bool {
	return f.AuthorID == nil && f.ExecutorID == nil && f.StatusID == nil && f.LabelID == nil
}

// Matches evaluates the filter against an already loaded task.
func (f TaskFilter) Matches(t Task) bool {
	if f.AuthorID != nil && t.Author.ID != *f.AuthorID {
		return false
	}
	if f.ExecutorID != nil && (t.Executor == nil || t.Executor.ID != *f.ExecutorID) {
		return false
	}
	if f.StatusID != nil && t.TaskStatus.ID != *f.StatusID {
		return false
	}
	if f.LabelID != nil {
		found := false
		for _, l := range t.Labels {
			if l.ID == *f.LabelID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
