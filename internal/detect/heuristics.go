package detect

import (
	"regexp"
	"strings"
)

var (
	reApacheCombined = regexp.MustCompile(`^\S+ \S+ \S+ \[[^\]]+\] "[A-Z]+ [^\s]+ [^"]+" \d{3} \d+ "[^"]*" "[^"]*"`)
	reSyslogRFC5424  = regexp.MustCompile(`^<\d+>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	reLogfmtKV       = regexp.MustCompile(`(^|\s)[a-zA-Z_][a-zA-Z0-9_.]*=`)
	reTextHeader     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?\S*\s+[A-Za-z]+\s`)
)

type Guess struct {
	Format     Format
	Confidence float64
}

// Heuristics guesses the format of a small sample of lines.
func Heuristics(sample []string) Guess {
	lines := 0
	jsonCount := 0
	logfmtCount := 0
	apacheCount := 0
	syslogCount := 0
	textCount := 0
	for _, l := range sample {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		lines++
		switch {
		case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
			jsonCount++
		case reApacheCombined.MatchString(s):
			apacheCount++
		case reSyslogRFC5424.MatchString(s):
			syslogCount++
		case reTextHeader.MatchString(s):
			textCount++
		case len(reLogfmtKV.FindAllString(s, 3)) >= 2:
			logfmtCount++
		}
	}
	if lines == 0 {
		return Guess{Format: Unknown()}
	}
	best, hits := Unknown(), 0
	for _, c := range []struct {
		f Format
		n int
	}{
		{JSONLines(), jsonCount},
		{Apache(), apacheCount},
		{Syslog(), syslogCount},
		{Text(), textCount},
		{Logfmt(), logfmtCount},
	} {
		if c.n > hits {
			best, hits = c.f, c.n
		}
	}
	// Text files carry continuation lines, so a lower share still counts.
	need := lines / 2
	if best.Name == "text" {
		need = 1
	}
	if hits == 0 || hits < need {
		return Guess{Format: Unknown()}
	}
	return Guess{Format: best, Confidence: conf(lines, hits)}
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(hits) / float64(lines)
}
