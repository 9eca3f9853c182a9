package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TeamID      primitive.ObjectID `json:"team_id" bson:"team_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Status      TaskStatus         `json:"status" bson:"status"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	AssignedTo  *uint              `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedBy   uint               `json:"created_by" bson:"created_by"`
	Deadline    *time.Time         `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// TaskView is a task with its assignee and creator resolved.
type TaskView struct {
	Task     `bson:",inline"`
	Assignee *UserCompact `json:"assignee,omitempty" bson:"-"`
	Creator  *UserCompact `json:"creator,omitempty" bson:"-"`
}

type CreateTaskRequest struct {
	TeamID      string       `json:"team_id" validate:"required,len=24,hexadecimal"`
	Title       string       `json:"title" validate:"required,min=1,max=200"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=Todo 'In Progress' Done"`
	Priority    TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	AssignedTo  *uint        `json:"assigned_to,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=Todo 'In Progress' Done"`
	Priority    *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	AssignedTo  *uint         `json:"assigned_to,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
}
