package progress

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestSpinnerModel_MessageUpdate(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 1)
	m := newModel("listing", ch)

	updated, cmd := m.Update(messageUpdate("still listing"))
	if cmd == nil {
		t.Fatal("expected a command to wait for the next message")
	}
	sm := updated.(spinnerModel)
	if sm.message != "still listing" {
		t.Errorf("message = %q, want %q", sm.message, "still listing")
	}
	if !strings.Contains(sm.render(), "still listing") {
		t.Errorf("render() = %q, want to contain message", sm.render())
	}

	// The returned command delivers the next message from the channel.
	ch <- "done soon"
	if got := cmd(); got != messageUpdate("done soon") {
		t.Errorf("wait command returned %v, want messageUpdate", got)
	}
}

func TestSpinnerModel_EmptyMessage(t *testing.T) {
	t.Parallel()

	m := newModel("", make(chan string))
	if got := m.render(); got != "" {
		t.Errorf("render() with empty message = %q, want empty", got)
	}
}

func TestSpinnerModel_Keys(t *testing.T) {
	t.Parallel()

	m := newModel("x", make(chan string))

	if _, cmd := m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"}); cmd != nil {
		t.Error("ordinary keys should be ignored")
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}); cmd == nil {
		t.Error("ctrl+c should quit")
	}
}

func TestSpinner_StopBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewSpinner("x")
	s.UpdateMessage("y")
	if s.lastMsg != "y" {
		t.Errorf("lastMsg = %q, want y", s.lastMsg)
	}
	s.Stop()
	s.Start()
	if s.running {
		t.Error("Start after Stop should not run the spinner")
	}
	s.Stop()
}

func TestWhile_PassesThroughResult(t *testing.T) {
	t.Parallel()

	called := false
	if err := While("x", time.Hour, func() error { called = true; return nil }); err != nil {
		t.Errorf("While() error = %v", err)
	}
	if !called {
		t.Error("While() did not call fn")
	}

	want := errors.New("boom")
	if err := While("x", time.Hour, func() error { return want }); !errors.Is(err, want) {
		t.Errorf("While() error = %v, want %v", err, want)
	}
}
