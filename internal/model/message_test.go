package model

import (
	"reflect"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"info", LevelInfo},
		{" WARNING ", LevelWarning},
		{"warn", LevelWarning},
		{"err", LevelError},
		{"crit", LevelCritical},
		{"panic", LevelFatal},
		{"dbg", LevelDebug},
		{"verbose", LevelVerbose},
		{"event", LevelEvent},
		{"", LevelUnknown},
		{"nonsense", LevelUnknown},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelStringOutOfRange(t *testing.T) {
	if got := Level(42).String(); got != "Unknown" {
		t.Fatalf("Level(42).String() = %q, want Unknown", got)
	}
	if got := LevelCritical.String(); got != "Critical" {
		t.Fatalf("LevelCritical.String() = %q", got)
	}
}

func TestAdditionalKeysSorted(t *testing.T) {
	m := &LogMessage{AdditionalInformation: map[string]string{"b": "2", "a": "1", "c": "3"}}
	if !m.HasAdditionalInformation() {
		t.Fatalf("HasAdditionalInformation = false")
	}
	if got := m.AdditionalKeys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("AdditionalKeys = %v", got)
	}
	var nilMsg *LogMessage
	if nilMsg.HasAdditionalInformation() || nilMsg.AdditionalKeys() != nil {
		t.Fatalf("nil message should report no additional information")
	}
}
