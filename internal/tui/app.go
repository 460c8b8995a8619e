// Package tui provides the terminal dashboard for watching a workflow run.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"contentpipe/pkg/models"
)

// EventMsg wraps an orchestrator event for the TUI.
type EventMsg struct {
	Type      string
	TaskID    string
	TaskName  string
	AgentID   string
	Message   string
	Error     string
	Timestamp time.Time
}

// RunDoneMsg signals that the workflow run has completed.
type RunDoneMsg struct {
	Success bool
	Message string
}

// LogEntry represents a log line displayed in the event feed.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

// taskRow is the dashboard's view of one task.
type taskRow struct {
	id     string
	name   string
	status models.TaskStatus
	agent  string
}

// App is the main bubbletea model for the contentpipe dashboard.
type App struct {
	// spinner animates while the run is in flight.
	spinner spinner.Model
	// workflowName is shown in the header.
	workflowName string
	// tasks is the ordered list of tasks seen so far.
	tasks []*taskRow
	// logs is the event feed.
	logs []LogEntry
	// width is the terminal width.
	width int
	// height is the terminal height.
	height int
	// quitting indicates the app is shutting down.
	quitting bool
	// runDone indicates the workflow run has completed.
	runDone bool
	// runSuccess indicates if the run completed successfully.
	runSuccess bool
	// runMessage holds the final run message.
	runMessage string

	footer *Footer
}

// New creates a new App instance.
func New(workflowName string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &App{
		spinner:      sp,
		workflowName: workflowName,
		tasks:        make([]*taskRow, 0),
		logs:         make([]LogEntry, 0),
		footer:       NewFooter(),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.footer.SetWidth(msg.Width)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case EventMsg:
		a.handleEvent(msg)

	case RunDoneMsg:
		a.runDone = true
		a.runSuccess = msg.Success
		a.runMessage = msg.Message
		a.footer.SetRunDone(true, msg.Success, msg.Message)
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		a.viewHeader(), a.viewTasks(), a.viewLogs(), a.footer.View())
}

// viewHeader renders the workflow title line.
func (a *App) viewHeader() string {
	if a.runDone {
		return headerStyle.Render(a.workflowName)
	}
	return fmt.Sprintf("%s %s", a.spinner.View(), headerStyle.Render(a.workflowName))
}

// viewTasks renders the task table.
func (a *App) viewTasks() string {
	if len(a.tasks) == 0 {
		return dimStyle.Render("  Waiting for tasks...")
	}

	var view string
	for _, task := range a.tasks {
		marker := statusMarker(task.status)
		line := fmt.Sprintf("  %s %s", marker, task.name)
		if task.agent != "" {
			line += dimStyle.Render("  [" + task.agent + "]")
		}
		view += line + "\n"
	}
	return view
}

// viewLogs renders the most recent events (up to 10).
func (a *App) viewLogs() string {
	if len(a.logs) == 0 {
		return ""
	}

	start := 0
	if len(a.logs) > 10 {
		start = len(a.logs) - 10
	}

	var view string
	for _, entry := range a.logs[start:] {
		ts := entry.Timestamp.Format("15:04:05")
		line := fmt.Sprintf("  %s %s", ts, entry.Message)
		if entry.Level == "ERROR" {
			line = errorStyle.Render(line)
		} else {
			line = dimStyle.Render(line)
		}
		view += line + "\n"
	}
	return view
}

// handleEvent processes an orchestrator event and updates state.
func (a *App) handleEvent(msg EventMsg) {
	level := "INFO"
	if msg.Error != "" {
		level = "ERROR"
	}
	text := msg.Message
	if text == "" {
		text = msg.Type
	}
	a.logs = append(a.logs, LogEntry{
		Timestamp: msg.Timestamp,
		Level:     level,
		Message:   text,
	})

	if msg.TaskID == "" {
		return
	}

	task := a.findOrCreateTask(msg.TaskID, msg.TaskName)
	switch msg.Type {
	case "task_assigned":
		task.agent = msg.AgentID
	case "task_started":
		task.status = models.TaskStatusInProgress
		task.agent = msg.AgentID
	case "task_completed":
		task.status = models.TaskStatusCompleted
	case "task_failed":
		task.status = models.TaskStatusFailed
	case "task_injected":
		task.status = models.TaskStatusInProgress
		task.agent = msg.AgentID
	}
	a.footer.SetTaskCounts(a.countTasks())
}

// countTasks tallies tasks per status for the footer.
func (a *App) countTasks() TaskCounts {
	var counts TaskCounts
	for _, task := range a.tasks {
		switch task.status {
		case models.TaskStatusCompleted:
			counts.Done++
		case models.TaskStatusFailed:
			counts.Failed++
		case models.TaskStatusInProgress:
			counts.Running++
		}
	}
	return counts
}

// findOrCreateTask finds a task row by ID or creates a new one.
func (a *App) findOrCreateTask(id, name string) *taskRow {
	for _, task := range a.tasks {
		if task.id == id {
			if name != "" {
				task.name = name
			}
			return task
		}
	}
	task := &taskRow{
		id:     id,
		name:   name,
		status: models.TaskStatusPending,
	}
	a.tasks = append(a.tasks, task)
	return task
}

// statusMarker returns the glyph for a task status.
func statusMarker(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return successStyle.Render("✓")
	case models.TaskStatusFailed:
		return errorStyle.Render("✗")
	case models.TaskStatusInProgress:
		return runningStyle.Render("●")
	default:
		return dimStyle.Render("○")
	}
}

// NewProgram creates a Bubbletea program that can receive messages via Send().
func NewProgram(workflowName string) (*tea.Program, *App) {
	app := New(workflowName)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
