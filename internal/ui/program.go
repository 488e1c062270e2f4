package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/unitcam/internal/wifi"
)

// ErrInterrupted is returned when the user quits the live view early
var ErrInterrupted = errors.New("interrupted")

// BringupFunc performs the bring-up, reporting stage events to observe.
type BringupFunc func(ctx context.Context, observe wifi.Observer) Summary

type eventMsg wifi.Event

type doneMsg Summary

// liveModel is the Bubble Tea model for the live bring-up view.
type liveModel struct {
	header  *Header
	tracker *Tracker
	spinner spinner.Model
	result  *Result
	width   int

	done        bool
	interrupted bool
}

func newLiveModel(header *Header, tracker *Tracker, width int) liveModel {
	return liveModel{
		header:  header.SetWidth(width),
		tracker: tracker,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StepRunningStyle)),
		width:   width,
	}
}

// Init implements tea.Model
func (m liveModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.header.SetWidth(m.width)
		m.tracker.Progress.SetWidth(m.width)
	case eventMsg:
		m.tracker.Apply(wifi.Event(msg))
	case doneMsg:
		m.tracker.Finish(Summary(msg))
		m.result = m.tracker.Result(Summary(msg)).SetWidth(m.width)
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m liveModel) View() string {
	var b strings.Builder
	b.WriteString(m.header.Render())
	b.WriteString("\n\n")
	b.WriteString(m.tracker.Progress.Render())
	b.WriteString("\n")

	switch {
	case m.done:
		b.WriteString("\n")
		b.WriteString(m.result.Render())
		b.WriteString("\n")
	case m.interrupted:
		b.WriteString("\n" + StepPendingStyle.Render("  Interrupted, releasing the radio...") + "\n")
	default:
		b.WriteString("\n  " + m.spinner.View() + " " + StepPendingStyle.Render("Negotiating (ctrl+c to abort)") + "\n")
	}
	return b.String()
}

// RunLive runs fn under a Bubble Tea view that follows its stage events.
// If the user quits early the context passed to fn is cancelled and RunLive
// still waits for fn to return, so the radio is never left half configured.
func RunLive(ctx context.Context, header *Header, fn BringupFunc) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := NewTracker()
	p := tea.NewProgram(newLiveModel(header, tracker, GetTerminalWidth()), tea.WithOutput(os.Stdout))

	results := make(chan Summary, 1)
	go func() {
		s := fn(ctx, func(ev wifi.Event) { p.Send(eventMsg(ev)) })
		results <- s
		p.Send(doneMsg(s))
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return <-results, fmt.Errorf("terminal UI failed: %w", err)
	}

	if m, ok := final.(liveModel); ok && m.interrupted {
		cancel()
		return <-results, ErrInterrupted
	}
	return <-results, nil
}

// Printer provides methods for printing UI components to a writer.
// It is used when stdout is not a terminal.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the render width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(h *Header) {
	p.Println(h.SetWidth(p.width).Render())
	p.Newline()
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Newline()
	p.Println(r.SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.PrintResult(NewWarningResult(title, details...))
}

// PrintFailure prints an error result box with troubleshooting tips
func (p *Printer) PrintFailure(title string, err error, troubleshooting []string) {
	p.PrintResult(NewFailureResult(title, err, troubleshooting))
}

// RunPlain runs fn and prints each step as it reaches a terminal status,
// followed by the result box.
func (p *Printer) RunPlain(ctx context.Context, header *Header, fn BringupFunc) Summary {
	p.PrintHeader(header)

	tracker := NewTracker()
	tracker.Progress.SetWidth(p.width)
	printed := make(map[int]bool)
	emit := func(steps []int) {
		for _, n := range steps {
			step, ok := tracker.Progress.Step(n)
			if !ok || !step.Status.Done() || printed[n] {
				continue
			}
			printed[n] = true
			p.Println(tracker.Progress.RenderStepLine(step))
		}
	}

	s := fn(ctx, func(ev wifi.Event) { emit(tracker.Apply(ev)) })
	emit(tracker.Finish(s))
	p.PrintResult(tracker.Result(s))
	return s
}

// Notice renders a one-line muted message
func Notice(msg string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).PaddingLeft(2).Render(msg)
}
