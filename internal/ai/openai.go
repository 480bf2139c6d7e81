// Package ai asks an OpenAI-compatible endpoint to explain a log message.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	altai "github.com/sashabaranov/go-openai"

	"logpeek/internal/model"
	"logpeek/internal/render"
	"logpeek/internal/util"
	"logpeek/internal/util/logx"
)

// ErrDisabled is returned when no endpoint is configured or the app runs
// offline.
var ErrDisabled = errors.New("openai disabled")

const systemPrompt = "You help developers understand application log messages. " +
	"Answer in concise GitHub flavored markdown: what happened, the likely cause, and what to check next."

// maxBody caps the message body sent in a prompt.
const maxBody = 6000

type Explainer struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	offline bool

	// complete is swapped in tests.
	complete func(ctx context.Context, system, user string) (string, error)
}

func NewExplainer(apiKey, baseURL, model string, timeout time.Duration, offline bool) *Explainer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	e := &Explainer{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout, offline: offline}
	e.complete = e.callAlt
	return e
}

// Enabled reports whether Explain will reach out to the endpoint.
func (e *Explainer) Enabled() bool {
	return e != nil && !e.offline && e.apiKey != ""
}

// Explain returns a markdown explanation of m.
func (e *Explainer) Explain(ctx context.Context, m *model.LogMessage) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}
	if m == nil {
		return "", errors.New("no message to explain")
	}
	ctx2, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	start := time.Now()
	out, err := e.complete(ctx2, systemPrompt, BuildPrompt(m))
	if err != nil {
		logx.Warnf("ai: explain message %d failed: %v", m.ID, err)
		return "", fmt.Errorf("explain: %w", err)
	}
	logx.Infof("ai: explained message %d in %s", m.ID, time.Since(start).Round(time.Millisecond))
	return strings.TrimSpace(out), nil
}

func (e *Explainer) callAlt(ctx context.Context, system, user string) (string, error) {
	cfg := altai.DefaultConfig(e.apiKey)
	if e.baseURL != "" {
		cfg.BaseURL = e.baseURL
	}
	cli := altai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx, altai.ChatCompletionRequest{
		Model: e.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: system},
			{Role: altai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt renders m as plain text, trims an oversized body and masks
// personal data.
func BuildPrompt(m *model.LogMessage) string {
	v := render.NewRenderer(nil).Render(m, "", render.DefaultDateFormat)
	if len(v.Body) > maxBody {
		v.Body = v.Body[:maxBody] + "\n[truncated]"
	}
	var b strings.Builder
	b.WriteString("Explain this log message.\n\n")
	b.WriteString(v.Text())
	return util.RedactPII(b.String())
}
