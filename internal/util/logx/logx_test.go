package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	Reset()
	SetLevel(Warn)
	defer SetLevel(Info)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	lines := Lines()
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "WARN") || !strings.HasSuffix(lines[0], "shown 2") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestMaxLinesDropsOldest(t *testing.T) {
	Reset()
	SetMaxLines(2)
	defer SetMaxLines(500)

	Errorf("a")
	Errorf("b")
	Errorf("c")
	got := Lines()
	if len(got) != 2 || !strings.HasSuffix(got[0], " b") || !strings.HasSuffix(got[1], " c") {
		t.Fatalf("Lines = %v", got)
	}
}

func TestMirrorOutput(t *testing.T) {
	Reset()
	var out bytes.Buffer
	SetOutput(&out)
	defer SetOutput(nil)

	Infof("hello")
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("mirror got %q", out.String())
	}
	if Dump() == "" {
		t.Fatalf("Dump empty")
	}
}

func TestSetLevelFromEnv(t *testing.T) {
	t.Setenv("LOGPEEK_LOG_LEVEL", "debug")
	t.Setenv("LOGPEEK_LOG_STDERR", "0")
	defer SetLevel(Info)
	SetLevelFromEnv()

	Reset()
	Debugf("dbg")
	if len(Lines()) != 1 {
		t.Fatalf("debug line not retained after env level")
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("WARNING"); !ok || l != Warn {
		t.Fatalf("ParseLevel(WARNING) = %v,%v", l, ok)
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("ParseLevel(loud) should fail")
	}
}
