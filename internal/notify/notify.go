package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "rayclock")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendTaskComplete announces that a task's planned time has elapsed
func (n *Notifier) SendTaskComplete(taskTitle string, actualMinutes int) error {
	return n.Send(Notification{
		Title:   "Time's Up!",
		Body:    fmt.Sprintf("%s (%d min)", taskTitle, actualMinutes),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	})
}

// SendAllTasksComplete announces that the whole list is done
func (n *Notifier) SendAllTasksComplete() error {
	return n.Send(Notification{
		Title:   "All Done",
		Body:    "Every task on the list is complete.",
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "emblem-ok-symbolic",
	})
}

// SendSyncResult reports how many tasks a Todoist pull imported
func (n *Notifier) SendSyncResult(imported int) error {
	body := "Already up to date"
	if imported == 1 {
		body = "Imported 1 task"
	} else if imported > 1 {
		body = fmt.Sprintf("Imported %d tasks", imported)
	}
	return n.Send(Notification{
		Title:   "Todoist Sync",
		Body:    body,
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "emblem-synchronizing-symbolic",
	})
}
