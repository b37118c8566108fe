package version

import (
	"fmt"
	"io"
	"os"
)

// Set at build time with -ldflags "-X github.com/go-authgate/idgate/internal/version.Version=..."
var (
	App       = "IDGate"
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	BuildOS   string
	BuildArch string
)

// Short returns the release version, or "dev" for local builds.
func Short() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// Commit returns the abbreviated git commit the binary was built from.
func Commit() string {
	if len(GitCommit) > 7 {
		return GitCommit[:7]
	}
	return GitCommit
}

// PrintVersion writes the build details to stdout.
func PrintVersion() {
	Fprint(os.Stdout)
}

// Fprint writes one line per known build detail to w.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, Short())
	for _, line := range []struct{ label, value string }{
		{"Git commit", Commit()},
		{"Build time", BuildTime},
		{"Go version", GoVersion},
	} {
		if line.value != "" {
			fmt.Fprintf(w, "%s: %s\n", line.label, line.value)
		}
	}
	if BuildOS != "" && BuildArch != "" {
		fmt.Fprintf(w, "Built for: %s/%s\n", BuildOS, BuildArch)
	}
}
