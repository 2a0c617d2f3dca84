package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/session"
	tu "github.com/hexthorne/airwave/internal/testing"
)

func newTestModel(provider *tu.MockProvider) Model {
	orch := session.NewOrchestrator(provider, nil)
	store := &tu.MemoryStore{Pair: session.CredentialPair{AccessToken: "tok", RefreshToken: "ref"}}
	return NewModel(context.Background(), orch, store)
}

func TestModel(t *testing.T) {
	t.Run("View Before Load Shows Spinner", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{ConfiguredValue: true})

		if !strings.Contains(model.View(), "loading") {
			t.Error("expected loading view before first fetch")
		}
	})

	t.Run("Now Playing Message Updates View", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{ConfiguredValue: true})

		progress, duration := 1000, 2000
		updated, _ := model.Update(nowPlayingMsg{resp: session.NowPlayingResponse{
			IsPlaying:  true,
			Configured: true,
			LoggedIn:   true,
			Title:      "Roygbiv",
			Artist:     "Boards of Canada",
			Album:      "Music Has the Right to Children",
			Progress:   &progress,
			Duration:   &duration,
		}})

		view := updated.View()
		if !strings.Contains(view, "Roygbiv") || !strings.Contains(view, "Boards of Canada") {
			t.Errorf("expected track in view, got %q", view)
		}
	})

	t.Run("Unconfigured State", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{})

		updated, _ := model.Update(nowPlayingMsg{resp: session.NowPlayingResponse{}})

		if !strings.Contains(updated.View(), "not configured") {
			t.Errorf("expected unconfigured message, got %q", updated.View())
		}
	})

	t.Run("Expired Session Prompts Login", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{ConfiguredValue: true})

		updated, _ := model.Update(nowPlayingMsg{resp: session.NowPlayingResponse{
			Configured: true,
			Error:      session.SessionExpiredMessage,
		}})

		view := updated.View()
		if !strings.Contains(view, session.SessionExpiredMessage) {
			t.Errorf("expected expiry message, got %q", view)
		}
		if !strings.Contains(view, "auth login") {
			t.Errorf("expected login hint, got %q", view)
		}
	})

	t.Run("Volume Keys Are Clamped", func(t *testing.T) {
		provider := &tu.MockProvider{ConfiguredValue: true}
		model := newTestModel(provider)
		model.volume = &services.VolumeState{Percent: 98, HasActiveDevice: true}

		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyUp})
		if cmd == nil {
			t.Fatal("expected a volume command")
		}

		msg := cmd()
		set, ok := msg.(volumeSetMsg)
		if !ok {
			t.Fatalf("expected volumeSetMsg, got %T", msg)
		}
		if set.err != nil {
			t.Fatalf("expected no error, got %v", set.err)
		}
		if set.percent != 100 {
			t.Errorf("expected clamp to 100, got %d", set.percent)
		}
	})

	t.Run("Quit Key", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{ConfiguredValue: true})

		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Volume Message Records State", func(t *testing.T) {
		model := newTestModel(&tu.MockProvider{ConfiguredValue: true})

		updated, _ := model.Update(volumeMsg{state: &services.VolumeState{Percent: 30, DeviceName: "Desk", HasActiveDevice: true}})

		m := updated.(Model)
		if m.volume == nil || m.volume.Percent != 30 {
			t.Errorf("unexpected volume state %+v", m.volume)
		}
	})
}

func TestFormatMS(t *testing.T) {
	if got := formatMS(65000); got != "1:05" {
		t.Errorf("formatMS(65000) = %q, want %q", got, "1:05")
	}
	if got := formatMS(0); got != "0:00" {
		t.Errorf("formatMS(0) = %q, want %q", got, "0:00")
	}
}
