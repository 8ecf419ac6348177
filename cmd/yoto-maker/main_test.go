package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kittenwhisky/yoto-maker/internal/deps"
	"github.com/kittenwhisky/yoto-maker/internal/download"
	"github.com/kittenwhisky/yoto-maker/internal/model"
)

// isolate keeps config, .env and HOME lookups inside a temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

// writeStub installs a fake yt-dlp and points the config at it.
func writeStub(t *testing.T, dir, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	path := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("YOTO_MAKER_YTDLP_PATH", path)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"#", "Title"},
		[][]string{{"1", "Wheels on the Bus"}, {"12"}},
		[]columnAlignment{alignRight},
	)
	for _, want := range []string{"#", "TITLE", "Wheels on the Bus", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if got := renderTable(nil, [][]string{{"x"}}, nil); got != "" {
		t.Errorf("renderTable(no headers) = %q, want empty", got)
	}
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	p := newEventPrinter(&out, false)

	events := []download.ProgressEvent{
		{Message: "Downloading 2 tracks...", Level: download.LevelInfo},
		{Message: "hidden detail", Level: download.LevelVerbose},
		{Message: "  [1/2] Song ✗ boom", Level: download.LevelError},
		{Message: "cover art skipped", Level: download.LevelWarning},
		{Message: download.ReportHeader, Level: download.LevelError},
		{Message: "1 of 2 tracks failed:", Level: download.LevelError},
		{Message: "Error CSV saved to: x.csv", Level: download.LevelInfo},
	}
	for _, e := range events {
		p.print(e)
	}

	got := out.String()
	want := "Downloading 2 tracks...\n" +
		"  [1/2] Song ✗ boom\n" +
		"warning: cover art skipped\n" +
		"Error CSV saved to: x.csv\n"
	if got != want {
		t.Errorf("printed:\n%q\nwant:\n%q", got, want)
	}

	out.Reset()
	newEventPrinter(&out, true).print(download.ProgressEvent{Message: "detail", Level: download.LevelVerbose})
	if out.String() != "   detail\n" {
		t.Errorf("verbose event = %q", out.String())
	}
}

func TestRenderStatuses(t *testing.T) {
	out := renderStatuses([]deps.Status{
		{Name: "yt-dlp", Command: "yt-dlp", Available: true, Version: "2025.01.01"},
		{Name: "ffmpeg", Command: "ffmpeg", Detail: `binary "ffmpeg" not found`},
		{Name: "JavaScript runtime", Command: "node", Optional: true, Detail: `binary "node" not found`},
	})
	for _, want := range []string{"2025.01.01", "missing", `binary "ffmpeg" not found`, "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("status table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	track := model.NewTrack(2, "Baby Shark", "https://www.youtube.com/watch?v=x")
	report := &download.Report{
		Total: 2,
		Outcomes: []model.Outcome{
			model.Succeeded(1, model.NewTrack(1, "Twinkle", "u"), "out/Twinkle.mp3"),
			model.Failed(2, track, errors.New("ERROR: Video unavailable")),
		},
		ErrorReportPath: "tracks - error report.csv",
	}

	summary := renderSummary(report)
	for _, want := range []string{"Downloaded", "Failed", "tracks - error report.csv"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "Playlist") {
		t.Errorf("summary lists a playlist that was not written:\n%s", summary)
	}

	failures := renderFailures(report.Failures())
	for _, want := range []string{"Baby Shark", "ERROR: Video unavailable"} {
		if !strings.Contains(failures, want) {
			t.Errorf("failure table missing %q:\n%s", want, failures)
		}
	}
}

func TestRunExitCodes(t *testing.T) {
	isolate(t)

	if code := run(context.Background(), []string{"catalog"}); code != 1 {
		t.Errorf("missing argument exit = %d, want 1", code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	csv := filepath.Join(dir, "tracks.csv")
	if err := os.WriteFile(csv, []byte("\"track_number\",\"title\",\"url\"\r\n\"1\",\"A\",\"https://youtu.be/a\"\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := run(ctx, []string{"download", csv, "-o", filepath.Join(dir, "out")}); code != 130 {
		t.Errorf("canceled download exit = %d, want 130", code)
	}
}

func TestRootWithoutTerminal(t *testing.T) {
	isolate(t)
	if isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd()) {
		t.Skip("test is attached to a terminal")
	}
	if _, err := execute(t); !errors.Is(err, errNoTerminal) {
		t.Fatalf("root error = %v, want errNoTerminal", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "conf", "yoto-maker.toml")

	out, err := execute(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output %q does not name %s", out, target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[download]") {
		t.Errorf("config lacks [download] table:\n%s", data)
	}

	if _, err := execute(t, "config", "init", target); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
	if _, err := execute(t, "config", "init", target, "--overwrite"); err != nil {
		t.Errorf("init --overwrite: %v", err)
	}

	out, err = execute(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, target) || !strings.Contains(out, "ytdlp") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestCatalogCommand(t *testing.T) {
	dir := isolate(t)
	writeStub(t, dir, `cat <<'JSON'
{"_type":"playlist","entries":[
 {"id":"a1","title":"Old MacDonald","url":"https://www.youtube.com/watch?v=a1"},
 {"id":"b2","title":"Row, Row, Row Your Boat"}
]}
JSON
`)

	output := filepath.Join(dir, "songs.csv")
	out, err := execute(t, "catalog", "'https://www.youtube.com/playlist?list=PLkids'", "-o", output)
	if err != nil {
		t.Fatalf("catalog: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Fetching playlist info...") || !strings.Contains(out, "Saved 2 tracks") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if !strings.Contains(string(data), `"2","Row, Row, Row Your Boat","https://www.youtube.com/watch?v=b2"`) {
		t.Errorf("catalog content:\n%s", data)
	}
}

func TestDownloadCommand(t *testing.T) {
	dir := isolate(t)
	// The stub writes <template with mp3> unless the URL mentions "gone".
	writeStub(t, dir, `out=""
url=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift ;;
    --) url="$2"; shift ;;
  esac
  shift
done
case "$url" in
  *gone*) echo "ERROR: [youtube] gone: Video unavailable" >&2; exit 1 ;;
esac
file=$(printf '%s' "$out" | sed -e 's/%(ext)s/mp3/' -e 's/%%/%/g')
: > "$file"
`)

	conf := filepath.Join(dir, "yoto-maker.toml")
	if err := os.WriteFile(conf, []byte("[download]\nmodify_tags = false\nsave_cover_art_in_tags = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	csv := filepath.Join(dir, "tracks.csv")
	rows := "\"track_number\",\"title\",\"url\"\r\n" +
		"\"1\",\"Five Little Ducks\",\"https://www.youtube.com/watch?v=ok1\"\r\n" +
		"\"2\",\"Lost Song\",\"https://www.youtube.com/watch?v=gone\"\r\n"
	if err := os.WriteFile(csv, []byte(rows), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "output")

	out, err := execute(t, "--config", conf, "download", csv, "-o", outDir, "--playlist")
	if err != nil {
		t.Fatalf("download: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(outDir, "Five Little Ducks.mp3")); err != nil {
		t.Errorf("expected mp3: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tracks - error report.csv")); err != nil {
		t.Errorf("expected error report: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "tracks.m3u")); err != nil {
		t.Errorf("expected playlist: %v", err)
	}

	for _, want := range []string{"[1/2] Five Little Ducks ✓", "[2/2] Lost Song ✗", "Video unavailable", "Error CSV saved to:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, download.ReportHeader) {
		t.Errorf("plain-text report block should be replaced by the table:\n%s", out)
	}
}
