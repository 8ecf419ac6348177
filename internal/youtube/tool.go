package youtube

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

const defaultYtdlpPath = "yt-dlp"

// Tool describes how yt-dlp is invoked.
type Tool struct {
	// Path is the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// FFmpegLocation is passed as --ffmpeg-location when set.
	FFmpegLocation string

	// JSRuntime is passed as --js-runtimes when set (e.g. "node").
	JSRuntime string

	// RemoteComponents is passed as --remote-components when set (e.g. "ejs:github").
	RemoteComponents string

	// ExtraArgs are appended before the URL.
	ExtraArgs []string
}

func (t Tool) path() string {
	if p := strings.TrimSpace(t.Path); p != "" {
		return p
	}
	return defaultYtdlpPath
}

// command returns a builder carrying the flags shared by every invocation.
func (t Tool) command() *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(t.path()).
		NoWarnings()
	if t.JSRuntime != "" {
		cmd.JsRuntimes(t.JSRuntime)
	}
	if t.RemoteComponents != "" {
		cmd.RemoteComponents(t.RemoteComponents)
	}
	if t.FFmpegLocation != "" {
		cmd.FFmpegLocation(t.FFmpegLocation)
	}
	return cmd
}

// urlArgs are the positional arguments for one URL, behind "--" so the URL is
// never read as an option.
func (t Tool) urlArgs(url string) []string {
	args := make([]string, 0, len(t.ExtraArgs)+2)
	args = append(args, t.ExtraArgs...)
	return append(args, "--", url)
}

// run executes cmd and returns its result. Failures come back as *CommandError.
func (t Tool) run(ctx context.Context, op string, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	if _, err := exec.LookPath(t.path()); err != nil {
		return nil, &CommandError{Op: op, Err: errors.Join(ErrNotInstalled, err)}
	}

	result, err := cmd.Run(ctx, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var stderr string
		if result != nil {
			stderr = result.Stderr
		}
		return nil, &CommandError{Op: op, Stderr: stderr, Err: err}
	}
	return result, nil
}

// Version runs `yt-dlp --version` and returns the trimmed output.
func (t Tool) Version(ctx context.Context) (string, error) {
	result, err := t.run(ctx, "version", ytdlp.New().SetExecutable(t.path()), "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
