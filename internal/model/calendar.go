package model

import (
	"time"
)

// CalendarEvent is a read-only event pulled from a calendar account
type CalendarEvent struct {
	UID          string    `json:"uid"`
	Title        string    `json:"title"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	CalendarName string    `json:"calendar_name,omitempty"`
}

// Reminder is a read-only to-do item pulled from a calendar account
type Reminder struct {
	UID          string     `json:"uid"`
	Title        string     `json:"title"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Completed    bool       `json:"completed"`
	Notes        string     `json:"notes,omitempty"`
	CalendarName string     `json:"calendar_name,omitempty"`
}
