package model

import (
	"time"
)

// Task statuses map one-to-one onto board columns.
const (
	StatusNew     = "new"
	StatusProcess = "process"
	StatusBlocked = "blocked"
	StatusDone    = "done"
)

// Statuses lists every valid task status in board column order.
var Statuses = []string{StatusNew, StatusProcess, StatusBlocked, StatusDone}

// ValidStatus reports whether s is one of the four allowed statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          int     `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"not null;default:''"`
	Topic       *string `gorm:"index"`
	Deadline    *time.Time
	Status      string    `gorm:"not null;default:new;check:status IN ('new', 'process', 'blocked', 'done')"`
	Position    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Assignees []Employee `gorm:"many2many:task_assignees"`
}
