package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rayclock/rayclock/internal/app"
	"github.com/rayclock/rayclock/internal/auth"
	"github.com/rayclock/rayclock/internal/calendar"
	"github.com/rayclock/rayclock/internal/config"
	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/smarttime"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/todoist"
	"github.com/rayclock/rayclock/internal/ui"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "signup":
			handleSignup(os.Args[2:])
			return
		case "login":
			handleLogin(os.Args[2:])
			return
		case "sync":
			handleSync()
			return
		case "version":
			fmt.Printf("rayclock v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	flag.Parse()

	// Run TUI
	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `rayclock - A per-task countdown timer for your day

Usage:
  rayclock                          Start the TUI
  rayclock add <task>               Quick add a task
  rayclock sync                     Pull tasks from Todoist
  rayclock signup <email> <name>    Create an account
  rayclock login <email>            Log in and print a session token
  rayclock version                  Show version
  rayclock help                     Show this help

Quick Add:
  rayclock add "Write report"       Uses your default planned time
  rayclock add "Write report 25"    A trailing number sets the minutes

Environment:
  RAYCLOCK_DATA_DIR            Data directory
  RAYCLOCK_JWT_SECRET          Secret for account session tokens
  RAYCLOCK_CALDAV_USERNAME     Calendar account (Apple ID)
  RAYCLOCK_CALDAV_PASSWORD     App-specific password

Keybindings:
  Timer:        s/space       Start or pause
                +/-           Adjust elapsed time by five minutes
                c             Complete the current task now
                n             Skip to the next task

  Tasks:        a             Add new task
                d             Delete task
                x             Clear completed

  Views:        1-5           Timer, presets, report, calendar, settings
                ?             Help
                q             Quit`

	fmt.Println(help)
}

// openStore opens the database without the instance lock; one-shot
// commands only insert and exit.
func openStore(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return st
}

// resolveUser finds the single local account, creating one on first use
func resolveUser(ctx context.Context, st *store.Store) *model.User {
	user, err := st.DefaultUser(ctx)
	if errors.Is(err, store.ErrNotFound) {
		user, err = st.CreateUser(ctx, "local@rayclock", "Local", "")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving account: %v\n", err)
		os.Exit(1)
	}
	return user
}

func handleAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: rayclock add <task>")
		fmt.Fprintln(os.Stderr, "Example: rayclock add \"Write report 25\"")
		os.Exit(1)
	}

	text := strings.Join(args, " ")
	ctx := context.Background()

	st := openStore(config.FromEnv())
	defer st.Close()

	user := resolveUser(ctx, st)

	settings, err := st.GetOrCreateSettings(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	title := text
	planned := settings.DefaultTime
	if settings.SmartTimeDetection {
		if trimmed, minutes, ok := smarttime.Detect(text); ok {
			title = trimmed
			planned = minutes
		}
	}

	order, err := st.NextOrder(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task: %v\n", err)
		os.Exit(1)
	}

	task, err := st.CreateTask(ctx, user.ID, model.Task{
		Title:           title,
		PlannedDuration: planned,
		Order:           order,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s (%d min)\n", task.Title, task.PlannedDuration)
}

func handleSignup(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rayclock signup <email> <name>")
		os.Exit(1)
	}

	cfg := config.FromEnv()
	if err := cfg.RequireSecret(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	password := readPassword()

	st := openStore(cfg)
	defer st.Close()

	svc := auth.NewService(st, cfg.JWTSecret, cfg.TokenTTL)
	user, token, err := svc.SignUp(context.Background(), args[0], args[1], password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created account %s\n", user.Email)
	fmt.Println(token)
}

func handleLogin(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rayclock login <email>")
		os.Exit(1)
	}

	cfg := config.FromEnv()
	if err := cfg.RequireSecret(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	password := readPassword()

	st := openStore(cfg)
	defer st.Close()

	svc := auth.NewService(st, cfg.JWTSecret, cfg.TokenTTL)
	_, token, err := svc.Login(context.Background(), args[0], password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func readPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err == nil {
			return string(b)
		}
	}
	var password string
	fmt.Scanln(&password)
	return password
}

func handleSync() {
	ctx := context.Background()

	st := openStore(config.FromEnv())
	defer st.Close()

	user := resolveUser(ctx, st)

	settings, err := st.GetOrCreateSettings(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	if !settings.TodoistSyncEnabled || settings.TodoistAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Todoist sync is not configured. Set the API token in settings.")
		os.Exit(1)
	}

	syncer := todoist.NewSyncer(todoist.NewClient(settings.TodoistAPIKey), st)
	result, err := syncer.Pull(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d, skipped %d\n", result.Imported, result.Skipped)
}

func runTUI() error {
	cfg := config.FromEnv()

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	var calClient *calendar.Client
	if cfg.CalDAVConfigured() {
		calClient = calendar.NewClient(cfg.CalDAVUsername, cfg.CalDAVPassword)
	}

	// With a JWT secret configured the app runs multi-account and asks
	// for credentials; otherwise a single local account is used.
	var root ui.RootModel
	if application.Auth != nil {
		root = ui.NewRootModelWithLogin(application, calClient)
	} else {
		ctx := context.Background()
		user := resolveUser(ctx, application.Store)

		settings, err := application.Store.GetOrCreateSettings(ctx, user.ID)
		if err != nil {
			return err
		}

		root = ui.NewRootModel(application, user, settings, calClient)
	}

	p := tea.NewProgram(
		root,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
