package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles for the dashboard.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TaskCounts holds the count of tasks in each status.
type TaskCounts struct {
	Done    int
	Failed  int
	Running int
}

// Footer renders the status bar and keyboard hints.
type Footer struct {
	message    string
	success    bool
	runDone    bool
	width      int
	taskCounts TaskCounts

	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetRunDone marks the run as complete.
func (f *Footer) SetRunDone(done bool, success bool, message string) {
	f.runDone = done
	f.success = success
	f.message = message
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetTaskCounts updates the task counts for display.
func (f *Footer) SetTaskCounts(counts TaskCounts) {
	f.taskCounts = counts
}

// View renders the footer.
func (f *Footer) View() string {
	var left string

	total := f.taskCounts.Done + f.taskCounts.Failed + f.taskCounts.Running
	if total > 0 {
		counts := fmt.Sprintf("✓%d", f.taskCounts.Done)
		if f.taskCounts.Failed > 0 {
			counts += errorStyle.Render(fmt.Sprintf(" ✗%d", f.taskCounts.Failed))
		}
		if f.taskCounts.Running > 0 {
			counts += fmt.Sprintf(" ⏳%d", f.taskCounts.Running)
		}
		left = counts
	}

	if f.runDone {
		if f.success {
			left = successStyle.Render("✓ " + f.message)
		} else {
			left = errorStyle.Render("✗ " + f.message)
		}
	}

	right := dimStyle.Render("q quit")
	if f.runDone {
		right = dimStyle.Render("Press q to exit")
	}

	sep := f.separatorStyle.Render(" │ ")
	if left != "" {
		return left + sep + right
	}
	return right
}
