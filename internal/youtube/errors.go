package youtube

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInstalled is returned when the yt-dlp executable cannot be run.
	ErrNotInstalled = errors.New("yt-dlp not installed")

	// ErrInvalidURL is returned for locators that cannot be interpreted.
	ErrInvalidURL = errors.New("invalid YouTube URL")
)

// CommandError wraps a failed yt-dlp invocation together with what it
// printed on stderr.
type CommandError struct {
	// Op names the operation, e.g. "list playlist" or "fetch audio".
	Op     string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if msg := summarizeStderr(e.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("yt-dlp %s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// summarizeStderr returns the last "ERROR:" line, falling back to the last
// non-empty line.
func summarizeStderr(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
		if last == "" {
			last = line
		}
	}
	return last
}
