package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/preset"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// PresetsView lists saved routines and expands them into the task list.
type PresetsView struct {
	store  *store.Store
	userID string
	width  int
	height int

	presets []model.Preset
	cursor  int

	statusMsg string
	errorMsg  string
}

// NewPresetsView creates a new presets view
func NewPresetsView(st *store.Store, userID string) PresetsView {
	return PresetsView{
		store:  st,
		userID: userID,
	}
}

// Init initializes the presets view
func (v PresetsView) Init() tea.Cmd {
	return v.loadPresets()
}

// SetSize sets the view dimensions
func (v PresetsView) SetSize(width, height int) PresetsView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v PresetsView) IsInputMode() bool {
	return false
}

func (v PresetsView) loadPresets() tea.Cmd {
	return func() tea.Msg {
		presets, err := v.store.ListPresets(context.Background(), v.userID)
		return presetsLoadedMsg{presets: presets, err: err}
	}
}

type presetsLoadedMsg struct {
	presets []model.Preset
	err     error
}

type presetAppliedMsg struct {
	name    string
	created int
	err     error
}

type presetMutatedMsg struct {
	action string
	err    error
}

// Update handles messages
func (v PresetsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case presetsLoadedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.presets = msg.presets
		if v.cursor >= len(v.presets) {
			v.cursor = len(v.presets) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case presetAppliedMsg:
		if msg.err != nil {
			// Expansion stops at the first failure; earlier copies stay
			v.errorMsg = fmt.Sprintf("Applied %d task(s) from %q, then: %v", msg.created, msg.name, msg.err)
			return v, nil
		}
		v.statusMsg = fmt.Sprintf("Added %d task(s) from %q", msg.created, msg.name)
		return v, nil

	case presetMutatedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.statusMsg = msg.action
		return v, v.loadPresets()

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errorMsg = ""

		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.presets)-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "g":
			v.cursor = 0
		case "G":
			if len(v.presets) > 0 {
				v.cursor = len(v.presets) - 1
			}
		case "enter":
			if p, ok := v.selected(); ok {
				return v, v.applyPreset(p)
			}
		case "y":
			if p, ok := v.selected(); ok {
				return v, v.duplicatePreset(p)
			}
		case "d":
			if p, ok := v.selected(); ok {
				return v, v.deletePreset(p)
			}
		case "r":
			return v, v.loadPresets()
		}
	}

	return v, nil
}

func (v PresetsView) selected() (model.Preset, bool) {
	if v.cursor < 0 || v.cursor >= len(v.presets) {
		return model.Preset{}, false
	}
	return v.presets[v.cursor], true
}

func (v PresetsView) applyPreset(p model.Preset) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		order, err := v.store.NextOrder(ctx, v.userID)
		if err != nil {
			return presetAppliedMsg{name: p.Name, err: err}
		}
		created, err := preset.Expand(ctx, v.store, p, v.userID, order)
		return presetAppliedMsg{name: p.Name, created: len(created), err: err}
	}
}

func (v PresetsView) duplicatePreset(p model.Preset) tea.Cmd {
	return func() tea.Msg {
		copied, err := v.store.DuplicatePreset(context.Background(), p.ID, v.userID)
		if err != nil {
			return presetMutatedMsg{err: err}
		}
		return presetMutatedMsg{action: fmt.Sprintf("Created %q", copied.Name)}
	}
}

func (v PresetsView) deletePreset(p model.Preset) tea.Cmd {
	return func() tea.Msg {
		err := v.store.DeletePreset(context.Background(), p.ID)
		if err != nil {
			return presetMutatedMsg{err: err}
		}
		return presetMutatedMsg{action: fmt.Sprintf("Deleted %q", p.Name)}
	}
}

// View renders the presets view
func (v PresetsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, styles.Title.Render("Presets"))

	if len(v.presets) == 0 {
		sections = append(sections, styles.Subtitle.Render("No presets yet."))
	}

	for i, p := range v.presets {
		header := fmt.Sprintf("%s %s (%d tasks, %dm)", presetEmoji(p), p.Name, len(p.Tasks), p.TotalTime)
		if i == v.cursor {
			sections = append(sections, styles.TaskCurrent.Render("> "+header))
			for _, member := range p.Tasks {
				line := fmt.Sprintf("    %s %s (%dm)", memberEmoji(member), member.Title, member.PlannedDuration)
				sections = append(sections, styles.Label.Render(line))
			}
		} else {
			sections = append(sections, styles.TaskNormal.Render("  "+header))
		}
	}

	if v.errorMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).MarginTop(1).Render(v.errorMsg))
	} else if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Success).MarginTop(1).Render(v.statusMsg))
	}

	return strings.Join(sections, "\n")
}

func presetEmoji(p model.Preset) string {
	if p.Emoji != "" {
		return p.Emoji
	}
	return model.DefaultEmoji
}

func memberEmoji(m model.PresetTask) string {
	if m.Emoji != "" {
		return m.Emoji
	}
	return model.DefaultEmoji
}
