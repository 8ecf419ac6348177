package deps

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kittenwhisky/yoto-maker/internal/config"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 10 * time.Second

// Requirement defines an external program yoto-maker relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool

	// VersionArgs print the program version, e.g. ["--version"].
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Requirements lists the programs needed with the given settings.
func Requirements(settings *config.Settings) []Requirement {
	reqs := []Requirement{
		{
			Name:        "yt-dlp",
			Command:     settings.Ytdlp.Path,
			Description: "Playlist extraction and audio download",
			Optional:    settings.Catalog.Provider == config.ProviderNative,
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "ffmpeg",
			Command:     ffmpegCommand(settings.Ytdlp.FFmpegLocation),
			Description: "Audio transcoding to MP3",
			VersionArgs: []string{"-version"},
		},
	}
	if runtime := strings.TrimSpace(settings.Ytdlp.JSRuntime); runtime != "" {
		reqs = append(reqs, Requirement{
			Name:        "JavaScript runtime",
			Command:     runtime,
			Description: "YouTube signature challenges",
			Optional:    true,
			VersionArgs: []string{"--version"},
		})
	}
	return reqs
}

// ffmpegCommand resolves --ffmpeg-location, which may name the binary or its directory.
func ffmpegCommand(location string) string {
	if location == "" {
		return "ffmpeg"
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return filepath.Join(location, "ffmpeg")
	}
	return location
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Probe checks availability and then runs every available program's version
// command concurrently. A failing version command marks the program unavailable.
func Probe(ctx context.Context, requirements []Requirement) []Status {
	results := CheckBinaries(requirements)

	g, ctx := errgroup.WithContext(ctx)
	for i := range results {
		if !results[i].Available || len(requirements[i].VersionArgs) == 0 {
			continue
		}
		g.Go(func() error {
			version, err := version(ctx, results[i].Command, requirements[i].VersionArgs)
			if err != nil {
				results[i].Available = false
				results[i].Detail = err.Error()
				return nil
			}
			results[i].Version = version
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}

func version(ctx context.Context, command string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", command, strings.Join(args, " "), err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", nil
}
