package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/auth"
	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// LoginSucceeded notifies the root model that an account session is
// established.
type LoginSucceeded struct {
	User     *model.User
	Settings *model.Settings
}

const (
	loginFieldEmail = iota
	loginFieldName
	loginFieldPassword
)

// LoginView collects credentials for an existing or new account.
type LoginView struct {
	auth   *auth.Service
	store  *store.Store
	width  int
	height int

	inputs     []textinput.Model
	focus      int
	signupMode bool
	submitting bool

	errorMsg string
}

// NewLoginView creates a new login view
func NewLoginView(authService *auth.Service, st *store.Store) LoginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 80

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	return LoginView{
		auth:   authService,
		store:  st,
		inputs: []textinput.Model{email, name, password},
	}
}

// Init initializes the login view
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v LoginView) IsInputMode() bool {
	return true
}

type loginResultMsg struct {
	user     *model.User
	settings *model.Settings
	err      error
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		return v, func() tea.Msg {
			return LoginSucceeded{User: msg.user, Settings: msg.settings}
		}

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch msg.String() {
		case "tab", "down":
			return v.moveFocus(1)
		case "shift+tab", "up":
			return v.moveFocus(-1)
		case "ctrl+n":
			v.signupMode = !v.signupMode
			v.errorMsg = ""
			if !v.signupMode && v.focus == loginFieldName {
				return v.moveFocus(1)
			}
			return v, nil
		case "enter":
			if v.focus != loginFieldPassword {
				return v.moveFocus(1)
			}
			return v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v LoginView) moveFocus(direction int) (tea.Model, tea.Cmd) {
	v.inputs[v.focus].Blur()

	for {
		v.focus = (v.focus + direction + len(v.inputs)) % len(v.inputs)
		if v.focus == loginFieldName && !v.signupMode {
			continue
		}
		break
	}

	return v, v.inputs[v.focus].Focus()
}

func (v LoginView) submit() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(v.inputs[loginFieldEmail].Value())
	name := strings.TrimSpace(v.inputs[loginFieldName].Value())
	password := v.inputs[loginFieldPassword].Value()

	if email == "" || password == "" {
		v.errorMsg = "Email and password are required"
		return v, nil
	}

	v.submitting = true
	v.errorMsg = ""

	signup := v.signupMode
	authService := v.auth
	st := v.store

	return v, func() tea.Msg {
		ctx := context.Background()

		var user *model.User
		var err error
		if signup {
			user, _, err = authService.SignUp(ctx, email, name, password)
		} else {
			user, _, err = authService.Login(ctx, email, password)
		}
		if err != nil {
			return loginResultMsg{err: err}
		}

		settings, err := st.GetOrCreateSettings(ctx, user.ID)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{user: user, settings: settings}
	}
}

// View renders the login view
func (v LoginView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := "Log in"
	hint := "ctrl+n to create an account"
	if v.signupMode {
		title = "Create account"
		hint = "ctrl+n to log in instead"
	}

	var sections []string
	sections = append(sections, styles.Title.Render(title))

	for i, input := range v.inputs {
		if i == loginFieldName && !v.signupMode {
			continue
		}
		box := styles.Input
		if i == v.focus {
			box = styles.InputFocused
		}
		sections = append(sections, box.Render(input.View()))
	}

	if v.submitting {
		sections = append(sections, styles.Subtitle.Render("Signing in..."))
	}
	if v.errorMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).Render(v.errorMsg))
	}

	sections = append(sections, "", styles.Label.Render(hint))

	return strings.Join(sections, "\n")
}
