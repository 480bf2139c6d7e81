package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"logpeek/internal/model"
)

func TestExplainDisabled(t *testing.T) {
	m := &model.LogMessage{ID: 1, Text: "x"}
	for _, e := range []*Explainer{
		nil,
		NewExplainer("", "", "gpt-4o-mini", time.Second, false),
		NewExplainer("sk-test", "", "gpt-4o-mini", time.Second, true),
	} {
		if _, err := e.Explain(context.Background(), m); !errors.Is(err, ErrDisabled) {
			t.Fatalf("err = %v, want ErrDisabled", err)
		}
	}
}

func TestExplainUsesPrompt(t *testing.T) {
	e := NewExplainer("sk-test", "", "gpt-4o-mini", time.Second, false)
	var gotUser string
	e.complete = func(ctx context.Context, system, user string) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("explain context has no deadline")
		}
		gotUser = user
		return "  **Disk** is full.\n", nil
	}
	m := &model.LogMessage{ID: 7, Level: model.LevelError, Text: "disk full for ops@example.com", Source: "storage"}
	out, err := e.Explain(context.Background(), m)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if out != "**Disk** is full." {
		t.Fatalf("out = %q", out)
	}
	if !strings.Contains(gotUser, "Level: Error") || !strings.Contains(gotUser, "Source: storage") {
		t.Fatalf("prompt misses fields:\n%s", gotUser)
	}
	if strings.Contains(gotUser, "ops@example.com") {
		t.Fatalf("prompt leaks e-mail:\n%s", gotUser)
	}
}

func TestExplainError(t *testing.T) {
	e := NewExplainer("sk-test", "", "m", time.Second, false)
	boom := errors.New("boom")
	e.complete = func(context.Context, string, string) (string, error) { return "", boom }
	if _, err := e.Explain(context.Background(), &model.LogMessage{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	m := &model.LogMessage{Text: strings.Repeat("a", maxBody+100)}
	p := BuildPrompt(m)
	if !strings.Contains(p, "[truncated]") {
		t.Fatalf("long body not truncated")
	}
	if strings.Count(p, "a") > maxBody+20 {
		t.Fatalf("prompt too long: %d", len(p))
	}
}
