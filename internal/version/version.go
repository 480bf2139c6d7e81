package version

import "fmt"

// Name is the program name shown in the title bar and -version output.
const Name = "logpeek"

// Set at build time via -ldflags "-X logpeek/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	base := Name + " " + Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += " " + Date
	}
	return base
}
