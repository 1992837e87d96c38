package tui

import (
	"fmt"
	"testing"
)

func TestInputHistory_Push(t *testing.T) {
	tests := []struct {
		name string
		push []string
		want []string
	}{
		{"empty ignored", []string{""}, nil},
		{"keeps order", []string{"first", "second", "third"}, []string{"first", "second", "third"}},
		{"consecutive duplicate", []string{"same", "same"}, []string{"same"}},
		{"non-consecutive duplicate", []string{"same", "other", "same"}, []string{"same", "other", "same"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newInputHistory()
			for _, s := range tt.push {
				h.push(s)
			}
			if fmt.Sprint(h.entries) != fmt.Sprint(tt.want) {
				t.Errorf("entries = %q, want %q", h.entries, tt.want)
			}
		})
	}
}

func TestInputHistory_MaxSize(t *testing.T) {
	h := newInputHistory()
	for i := 0; i < maxHistorySize+10; i++ {
		h.push(fmt.Sprintf("msg %d", i))
	}
	if len(h.entries) != maxHistorySize {
		t.Fatalf("len = %d, want %d", len(h.entries), maxHistorySize)
	}
	if h.entries[0] != "msg 10" {
		t.Errorf("oldest = %q, want %q", h.entries[0], "msg 10")
	}
}

func TestInputLine_HistoryNavigation(t *testing.T) {
	il := NewInputLine()

	if il.HistoryUp() {
		t.Error("HistoryUp should return false with empty history")
	}
	if il.HistoryDown() {
		t.Error("HistoryDown should return false with empty history")
	}

	for _, s := range []string{"first", "second", "third"} {
		il.SetValue(s)
		if got := il.Commit(); got != s {
			t.Fatalf("Commit() = %q, want %q", got, s)
		}
	}
	if il.Value() != "" {
		t.Fatalf("Commit should clear the input, got %q", il.Value())
	}

	il.SetValue("draft")

	for _, want := range []string{"third", "second", "first"} {
		if !il.HistoryUp() {
			t.Fatalf("HistoryUp toward %q returned false", want)
		}
		if il.Value() != want {
			t.Errorf("value = %q, want %q", il.Value(), want)
		}
	}
	if il.HistoryUp() {
		t.Error("HistoryUp at oldest entry should return false")
	}
	if il.Value() != "first" {
		t.Errorf("value = %q, want %q", il.Value(), "first")
	}

	for _, want := range []string{"second", "third", "draft"} {
		if !il.HistoryDown() {
			t.Fatalf("HistoryDown toward %q returned false", want)
		}
		if il.Value() != want {
			t.Errorf("value = %q, want %q", il.Value(), want)
		}
	}
	if il.HistoryDown() {
		t.Error("HistoryDown when not browsing should return false")
	}
}

func TestInputLine_Disabled(t *testing.T) {
	il := NewInputLine()
	il.SetEnabled(false)
	if il.Enabled() {
		t.Fatal("Enabled() = true after SetEnabled(false)")
	}
	if cmd := il.Update(nil); cmd != nil {
		t.Error("disabled input should ignore updates")
	}
	il.SetEnabled(true)
	if !il.Enabled() {
		t.Error("Enabled() = false after SetEnabled(true)")
	}
}

func TestInputLine_ContentHeight(t *testing.T) {
	il := NewInputLine()

	if il.ContentHeight() != 1 {
		t.Errorf("initial ContentHeight = %d, want 1", il.ContentHeight())
	}

	il.InsertNewline()
	if il.ContentHeight() != 2 {
		t.Errorf("after InsertNewline, ContentHeight = %d, want 2", il.ContentHeight())
	}

	for i := 0; i < maxInputHeight; i++ {
		il.InsertNewline()
	}
	if il.ContentHeight() != maxInputHeight {
		t.Errorf("ContentHeight = %d, should be capped at %d", il.ContentHeight(), maxInputHeight)
	}

	il.Clear()
	if il.ContentHeight() != 1 {
		t.Errorf("after Clear, ContentHeight = %d, want 1", il.ContentHeight())
	}
}
