package filter

import (
	"testing"

	"logpeek/internal/model"
)

func sample() []*model.LogMessage {
	return []*model.LogMessage{
		{ID: 1, Level: model.LevelInfo, Text: "Service **started**", Source: "api", ProcessID: 10},
		{ID: 2, Level: model.LevelError, Text: "disk full", Source: "storage", Module: "Disk", ProcessID: 20,
			AdditionalInformation: map[string]string{"device": "sda1"}},
		{ID: 3, Level: model.LevelWarning, Text: "slow query", Source: "db", ProcessID: 20},
	}
}

func ids(ms []*model.LogMessage) []int64 {
	out := make([]int64, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []int64
	}{
		{"empty", Criteria{}, []int64{1, 2, 3}},
		{"contains ignores case", Criteria{Query: "STARTED"}, []int64{1}},
		{"contains searches module", Criteria{Query: "disk"}, []int64{2}},
		{"regex", Criteria{Query: `^s(low|ervice)`, UseRegex: true}, []int64{3}},
		{"levels", Criteria{Levels: map[model.Level]bool{model.LevelError: true, model.LevelWarning: true}}, []int64{2, 3}},
		{"expr numeric", Criteria{Expr: "pid == 20 && level != 'Error'"}, []int64{3}},
		{"expr additional info", Criteria{Expr: "device == 'sda1'"}, []int64{2}},
		{"expr id", Criteria{Expr: "id >= 2"}, []int64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvaluator(tt.c)
			if err != nil {
				t.Fatalf("NewEvaluator: %v", err)
			}
			got := ids(e.Apply(sample()))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApplyKeepsPointers(t *testing.T) {
	ms := sample()
	e, _ := NewEvaluator(Criteria{Query: "full"})
	out := e.Apply(ms)
	if len(out) == 0 || out[0] != ms[1] {
		t.Fatalf("filtered slice should share message pointers")
	}
}

func TestInvalidCriteria(t *testing.T) {
	if _, err := NewEvaluator(Criteria{Query: "(", UseRegex: true}); err == nil {
		t.Fatalf("expected regex error")
	}
	if _, err := NewEvaluator(Criteria{Expr: "level =="}); err == nil {
		t.Fatalf("expected expression error")
	}
}

func TestFromInput(t *testing.T) {
	tests := []struct {
		in   string
		want Criteria
	}{
		{"timeout", Criteria{Query: "timeout"}},
		{" /ti.*out/ ", Criteria{Query: "ti.*out", UseRegex: true}},
		{"expr: pid > 3", Criteria{Expr: "pid > 3"}},
		{"/", Criteria{Query: "/"}},
	}
	for _, tt := range tests {
		got := FromInput(tt.in)
		if got.Query != tt.want.Query || got.UseRegex != tt.want.UseRegex || got.Expr != tt.want.Expr {
			t.Fatalf("FromInput(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if FromInput(got.String()).String() != got.String() {
			t.Fatalf("String round trip failed for %q", tt.in)
		}
	}
	if !FromInput("  ").Empty() {
		t.Fatalf("blank input should be empty")
	}
}
