package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger_ReturnsSameEntryPerComponent(t *testing.T) {
	first := NewLogger("test-component")
	second := NewLogger("test-component")

	if first != second {
		t.Fatal("expected the same entry for repeated NewLogger calls")
	}
	if first.Data["component"] != "test-component" {
		t.Fatalf("component field = %v, want test-component", first.Data["component"])
	}
}

func TestSetLevel(t *testing.T) {
	entry := NewLogger("level-component")

	SetLevel("debug")
	if entry.Logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", entry.Logger.GetLevel())
	}

	// Invalid levels leave the current level untouched.
	SetLevel("not-a-level")
	if entry.Logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level after invalid set = %v, want debug", entry.Logger.GetLevel())
	}
}

func TestSetLevel_AppliesToLaterLoggers(t *testing.T) {
	SetLevel("warning")
	entry := NewLogger("late-component")

	if entry.Logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v, want warning", entry.Logger.GetLevel())
	}
}
