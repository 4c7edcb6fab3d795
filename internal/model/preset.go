package model

import (
	"time"
)

// PresetTask is one member of a preset template
type PresetTask struct {
	Title           string `json:"title"`
	PlannedDuration int    `json:"planned_duration"` // Minutes
	Emoji           string `json:"emoji,omitempty"`
}

// Preset is a named, reusable task template. Expanding a preset copies
// its members into new Task records; no ownership link is retained.
type Preset struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Emoji     string       `json:"emoji,omitempty"`
	Tasks     []PresetTask `json:"tasks"`
	TotalTime int          `json:"total_time"` // Minutes, cached sum of member durations
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ComputedTotal recomputes the total planned minutes from the members.
// The stored TotalTime is a cache; prefer this when correctness matters.
func (p *Preset) ComputedTotal() int {
	total := 0
	for _, t := range p.Tasks {
		total += t.PlannedDuration
	}
	return total
}

// Validate checks the preset's invariants before it is persisted
func (p *Preset) Validate() error {
	if isBlank(p.Name) {
		return ErrEmptyPresetName
	}
	for i := range p.Tasks {
		if isBlank(p.Tasks[i].Title) {
			return ErrEmptyTitle
		}
		if p.Tasks[i].PlannedDuration <= 0 {
			return ErrNonPositiveDuration
		}
	}
	return nil
}
