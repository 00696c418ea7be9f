package version

import (
	"fmt"
	"regexp"
	"runtime"
	"runtime/debug"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI
	Version = "dev"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			GitCommit = s.Value
			if len(GitCommit) > 7 {
				GitCommit = GitCommit[:7]
			}
		case "vcs.time":
			BuildDate = s.Value
		}
	}
}

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("sqlforge version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	return fmt.Sprintf(`sqlforge version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// minimumServer is the oldest server release each backend is tested against.
var minimumServer = map[string]string{
	"postgres": "10.0",
	"mysql":    "5.7.8",
	"sqlite":   "3.24.0",
}

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// ServerCheck is the result of comparing a server version with the minimum
// supported release of its backend.
type ServerCheck struct {
	Backend   string
	Server    string
	Minimum   string
	Supported bool
}

// CheckServer compares a server version string such as "16.2 (Debian ...)"
// or "8.0.36-0ubuntu0" against the minimum for backend.
func CheckServer(backend, server string) (ServerCheck, error) {
	c := ServerCheck{Backend: backend, Server: server, Supported: true}
	min, ok := minimumServer[backend]
	if !ok {
		return c, nil
	}
	c.Minimum = min

	raw := leadingVersion.FindString(server)
	if raw == "" {
		return c, fmt.Errorf("invalid server version %q", server)
	}
	got, err := goversion.NewVersion(raw)
	if err != nil {
		return c, fmt.Errorf("invalid server version %q: %w", server, err)
	}
	c.Supported = !got.LessThan(goversion.Must(goversion.NewVersion(min)))
	return c, nil
}
