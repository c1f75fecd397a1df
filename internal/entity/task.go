package entity

import (
	"database/sql"

	"github.com/koinonia-app/backend/pkg/enum"
)

type TaskStatusType string

var (
	TaskActive   = enum.New(TaskStatusType("active"))
	TaskArchived = enum.New(TaskStatusType("archived"))
)

type Task struct {
	Base

	Title      string
	Details    []byte `gorm:"type:longtext"`
	Status     TaskStatusType
	CoinReward uint64

	// FocusSeconds declares a minimum focus duration before the task can be
	// completed. Zero means the task is not time-gated.
	FocusSeconds int
}

type TaskAssignmentStatus string

var (
	AssignmentAssigned = enum.New(TaskAssignmentStatus("assigned"))
	AssignmentDone     = enum.New(TaskAssignmentStatus("done"))
)

type TaskAssignment struct {
	Base

	TaskID string `gorm:"uniqueIndex:idx_assignment_task_user_day"`
	Task   Task   `gorm:"foreignKey:TaskID"`

	UserID string `gorm:"uniqueIndex:idx_assignment_task_user_day"`
	User   User   `gorm:"foreignKey:UserID"`

	// Day is the UTC calendar day of this assignment in 2006-01-02 format.
	Day string `gorm:"uniqueIndex:idx_assignment_task_user_day"`

	Status       TaskAssignmentStatus
	CompletedAt  sql.NullTime
	FocusStartAt sql.NullTime
}
