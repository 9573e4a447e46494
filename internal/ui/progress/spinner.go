// Package progress shows a spinner on stderr while ftree waits for slow
// directory listings.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
	"github.com/raphi011/ftree/internal/ui/styles"
)

// messageUpdate is sent to update the spinner message
type messageUpdate string

// Spinner wraps a Bubbletea spinner for simple non-interactive use
type Spinner struct {
	program *tea.Program
	msgChan chan string
	done    chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
	lastMsg string
}

// spinnerModel is the internal Bubbletea model
type spinnerModel struct {
	spinner spinner.Model
	message string
	msgChan chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForMessage())
}

func (m spinnerModel) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgChan
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.waitForMessage()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m spinnerModel) render() string {
	if m.message == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), styles.MutedStyle.Render(m.message))
}

func newModel(message string, msgChan chan string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TitleStyle
	return spinnerModel{spinner: sp, message: message, msgChan: msgChan}
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		msgChan: make(chan string, 10),
		done:    make(chan struct{}),
		lastMsg: message,
	}
}

// Start begins the spinner animation. Starting a stopped spinner is a
// no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.stopped {
		return
	}

	// stderr keeps stdout clean for piping tree output
	s.program = tea.NewProgram(newModel(s.lastMsg, s.msgChan), tea.WithoutSignalHandler(), tea.WithOutput(os.Stderr))
	s.running = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// UpdateMessage changes the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.lastMsg = message
		return
	}

	// Drop the update rather than block the caller when the UI lags.
	select {
	case s.msgChan <- message:
	default:
	}
}

// Stop stops the spinner and clears the line
func (s *Spinner) Stop() {
	s.mu.Lock()
	s.stopped = true
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.msgChan)
	s.mu.Unlock()

	s.program.Quit()

	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(os.Stderr, "\r\033[K")
}

// Enabled reports whether stderr is a terminal a spinner can draw on.
func Enabled() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// While runs fn and shows a spinner with message if fn is still running
// after delay. Nothing is drawn when stderr is not a terminal.
func While(message string, delay time.Duration, fn func() error) error {
	if !Enabled() {
		return fn()
	}

	s := NewSpinner(message)
	timer := time.AfterFunc(delay, s.Start)
	defer func() {
		timer.Stop()
		s.Stop()
	}()
	return fn()
}
