package launcher

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens catalog pages and trailers in an external browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	logger  *slog.Logger

	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// New creates a Launcher. An empty command uses the platform opener.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start() // don't wait for the browser
		},
	}
}

// Open opens target, which must be an absolute http(s) URL
func (l *Launcher) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web URL", target)
	}

	name, args := l.commandFor(target)
	l.logger.Info("opening url", "command", name, "args", args)
	if err := l.start(name, args...); err != nil {
		l.logger.Error("failed to open url", "error", err, "command", name)
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// commandFor resolves the command line that opens target
func (l *Launcher) commandFor(target string) (string, []string) {
	if l.command != "" {
		args := append([]string{}, l.args...)

		// On macOS a GUI browser is usually an app name, not a PATH binary
		if l.goos == "darwin" {
			if _, err := l.lookPath(l.command); err != nil {
				openArgs := []string{"-a", l.command}
				if len(args) > 0 {
					openArgs = append(openArgs, "--args")
					openArgs = append(openArgs, args...)
				}
				return "open", append(openArgs, target)
			}
		}
		return l.command, append(args, target)
	}

	switch l.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		// cmd's start would split on & in query strings
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Describe returns a short label for the configured opener
func (l *Launcher) Describe() string {
	if l.command == "" {
		return "system default"
	}
	return strings.TrimSpace(l.command + " " + strings.Join(l.args, " "))
}
