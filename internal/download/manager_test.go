package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kittenwhisky/yoto-maker/internal/catalog"
	"github.com/kittenwhisky/yoto-maker/internal/config"
	"github.com/kittenwhisky/yoto-maker/internal/model"
	"github.com/kittenwhisky/yoto-maker/internal/youtube"
)

// fakeFetcher resolves the output template like yt-dlp and fails for the
// configured URLs after leaving partial files behind.
type fakeFetcher struct {
	mu       sync.Mutex
	fail     map[string]string
	requests []youtube.FetchRequest
	onFetch  func()
}

func (f *fakeFetcher) FetchAudio(ctx context.Context, req youtube.FetchRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch()
	}

	base := strings.ReplaceAll(strings.TrimSuffix(req.OutputTemplate, ".%(ext)s"), "%%", "%")
	if msg, ok := f.fail[req.URL]; ok {
		os.WriteFile(base+".webm.part", []byte("partial"), 0o644)
		os.WriteFile(base+".f251.webm", []byte("fragment"), 0o644)
		return errors.New(msg)
	}
	return os.WriteFile(base+"."+req.AudioCodec, []byte("audio"), 0o644)
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Download.SaveCoverArtInTags = false
	return s
}

func writeTestCatalog(t *testing.T, dir string, tracks []*model.Track) string {
	t.Helper()
	path := filepath.Join(dir, "kids.csv")
	if err := catalog.WriteFile(path, tracks); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestManager_Run_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "nested")
	tracks := []*model.Track{
		model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1"),
		model.NewTrack(2, "Two, the sequel", "https://www.youtube.com/watch?v=2"),
		model.NewTrack(3, "100% Three", "https://www.youtube.com/watch?v=3"),
		model.NewTrack(4, "Four", "https://www.youtube.com/watch?v=4"),
	}
	catalogPath := writeTestCatalog(t, dir, tracks)

	fetcher := &fakeFetcher{fail: map[string]string{
		"https://www.youtube.com/watch?v=2": "ERROR: Video unavailable",
		"https://www.youtube.com/watch?v=4": "ERROR: Private video",
	}}

	var events []ProgressEvent
	m := NewManager(testSettings(), fetcher, func(e ProgressEvent) { events = append(events, e) }, WithLockDir(dir))

	report, err := m.Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Total != 4 || report.Succeeded() != 2 || len(report.Failures()) != 2 {
		t.Fatalf("report total=%d succeeded=%d failed=%d", report.Total, report.Succeeded(), len(report.Failures()))
	}

	// Sequential, in catalog order.
	for i, req := range fetcher.requests {
		if req.URL != tracks[i].URL {
			t.Errorf("request %d URL = %q, want %q", i, req.URL, tracks[i].URL)
		}
		if req.Format != "bestaudio/best" || req.AudioCodec != "mp3" || req.AudioQuality != "192" {
			t.Errorf("request %d params = %+v", i, req)
		}
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"100% Three.mp3", "One.mp3"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Errorf("output files = %v, want %v", names, want)
	}

	if report.ErrorReportPath != filepath.Join(dir, "kids - error report.csv") {
		t.Errorf("ErrorReportPath = %q", report.ErrorReportPath)
	}
	failed, err := catalog.Load(report.ErrorReportPath)
	if err != nil {
		t.Fatalf("load error report: %v", err)
	}
	if failed.Len() != 2 {
		t.Fatalf("error report has %d rows, want 2", failed.Len())
	}
	if failed.Tracks[0].Title != "Two, the sequel" || failed.Tracks[0].Number != 2 || failed.Tracks[1].URL != tracks[3].URL {
		t.Errorf("error report rows = %+v, %+v", failed.Tracks[0], failed.Tracks[1])
	}

	var messages []string
	for _, e := range events {
		messages = append(messages, e.Message)
	}
	joined := strings.Join(messages, "\n")
	for _, wantLine := range []string{
		"Downloading 4 tracks...",
		"  [1/4] One ✓",
		"  [2/4] Two, the sequel ✗ ERROR: Video unavailable",
		"--- Error Report ---",
		"2 of 4 tracks failed:",
		"    Error: ERROR: Private video",
		"Error CSV saved to: " + report.ErrorReportPath,
	} {
		if !strings.Contains(joined, wantLine) {
			t.Errorf("events missing %q\n%s", wantLine, joined)
		}
	}

	processed, failedCount, total := m.GetProgress()
	if processed != 4 || failedCount != 2 || total != 4 {
		t.Errorf("GetProgress = %d/%d/%d", processed, failedCount, total)
	}
}

func TestManager_Run_AllSucceed(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestCatalog(t, dir, []*model.Track{
		model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1"),
		model.NewTrack(2, "Two", "https://www.youtube.com/watch?v=2"),
	})

	var last ProgressEvent
	m := NewManager(testSettings(), &fakeFetcher{}, func(e ProgressEvent) { last = e }, WithLockDir(dir))

	report, err := m.Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: filepath.Join(dir, "out")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.ErrorReportPath != "" {
		t.Errorf("ErrorReportPath = %q, want none", report.ErrorReportPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "kids - error report.csv")); !os.IsNotExist(err) {
		t.Errorf("error report should not exist, stat err = %v", err)
	}
	if last.Message != "All 2 tracks downloaded successfully!" || last.Level != LevelSuccess {
		t.Errorf("last event = %+v", last)
	}
}

func TestManager_Run_Playlist(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	catalogPath := writeTestCatalog(t, dir, []*model.Track{
		model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1"),
		model.NewTrack(2, "Two", "https://www.youtube.com/watch?v=2"),
		model.NewTrack(3, "Three", "https://www.youtube.com/watch?v=3"),
	})

	settings := testSettings()
	settings.Download.CreatePlaylist = true
	fetcher := &fakeFetcher{fail: map[string]string{"https://www.youtube.com/watch?v=2": "boom"}}

	report, err := NewManager(settings, fetcher, nil, WithLockDir(dir)).Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.PlaylistPath != filepath.Join(out, "kids.m3u") {
		t.Fatalf("PlaylistPath = %q", report.PlaylistPath)
	}

	data, err := os.ReadFile(report.PlaylistPath)
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	want := "#EXTM3U\n#EXTINF:-1,One\nOne.mp3\n#EXTINF:-1,Three\nThree.mp3\n"
	if string(data) != want {
		t.Errorf("playlist = %q, want %q", data, want)
	}
}

func TestManager_Run_FatalCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{"empty", "track_number,title,url\n", func(err error) bool { return errors.Is(err, model.ErrEmptyCatalog) }},
		{"missing url", "track_number,title\n1,Song\n", func(err error) bool {
			var colErr *model.MissingColumnsError
			return errors.As(err, &colErr) && strings.Contains(err.Error(), "url")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "bad.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			fetcher := &fakeFetcher{}

			_, err := NewManager(testSettings(), fetcher, nil, WithLockDir(dir)).Run(context.Background(), model.DownloadRequest{CatalogPath: path, OutputDir: filepath.Join(dir, "out")})
			if !tt.check(err) {
				t.Errorf("Run error = %v", err)
			}
			if len(fetcher.requests) != 0 {
				t.Errorf("fetcher called %d times", len(fetcher.requests))
			}
		})
	}
}

func TestManager_Run_Locked(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestCatalog(t, dir, []*model.Track{model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1")})

	// Hold the lock the way a concurrent run would.
	lock, err := NewManager(testSettings(), &fakeFetcher{}, nil, WithLockDir(dir)).acquireLock(catalogPath)
	if err != nil {
		t.Fatalf("acquireLock: %v", err)
	}
	defer lock.Unlock()

	_, err = NewManager(testSettings(), &fakeFetcher{}, nil, WithLockDir(dir)).Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: filepath.Join(dir, "out")})
	if !errors.Is(err, ErrLocked) {
		t.Errorf("Run error = %v, want ErrLocked", err)
	}
}

func TestManager_Run_Canceled(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestCatalog(t, dir, []*model.Track{
		model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1"),
		model.NewTrack(2, "Two", "https://www.youtube.com/watch?v=2"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &fakeFetcher{onFetch: cancel}

	_, err := NewManager(testSettings(), fetcher, nil, WithLockDir(dir)).Run(ctx, model.DownloadRequest{CatalogPath: catalogPath, OutputDir: filepath.Join(dir, "out")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(fetcher.requests) != 1 {
		t.Errorf("fetcher called %d times, want 1", len(fetcher.requests))
	}
	if _, err := os.Stat(filepath.Join(dir, "kids - error report.csv")); !os.IsNotExist(err) {
		t.Error("canceled run must not write an error report")
	}
}

func TestManager_Run_OutputDirError(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestCatalog(t, dir, []*model.Track{model.NewTrack(1, "One", "https://www.youtube.com/watch?v=1")})

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewManager(testSettings(), &fakeFetcher{}, nil, WithLockDir(dir)).Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: filepath.Join(blocker, "out")})
	if err == nil || !strings.Contains(err.Error(), "output directory") {
		t.Errorf("Run error = %v, want output directory error", err)
	}
}

func TestManager_Run_TitleOutsideOutputDir(t *testing.T) {
	tests := []struct {
		title   string
		fetched bool
	}{
		{"", false},
		{"   ", false},
		{".", false},
		{"..", false},
		{"../x", false},
		{"a/..", false},
		{"a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "music")
			catalogPath := filepath.Join(dir, "music.csv")
			track := model.NewTrack(1, tt.title, "https://www.youtube.com/watch?v=1")
			if err := catalog.WriteFile(catalogPath, []*model.Track{track}); err != nil {
				t.Fatal(err)
			}
			// Names a cleanup of the wrong directory would match.
			neighbours := []string{"music.txt", "music.webm.part", "x.webm.part", ".webm.part"}
			for _, name := range neighbours {
				if err := os.WriteFile(filepath.Join(dir, name), []byte("keep"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			fetcher := &fakeFetcher{fail: map[string]string{track.URL: "ERROR: Video unavailable"}}
			report, err := NewManager(testSettings(), fetcher, nil, WithLockDir(t.TempDir())).Run(context.Background(), model.DownloadRequest{CatalogPath: catalogPath, OutputDir: out})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if got := len(fetcher.requests) == 1; got != tt.fetched {
				t.Errorf("fetched = %v, want %v", got, tt.fetched)
			}
			failures := report.Failures()
			if len(failures) != 1 {
				t.Fatalf("failures = %d, want 1", len(failures))
			}
			if unsafe := strings.Contains(failures[0].Err, ErrUnsafeTitle.Error()); unsafe == tt.fetched {
				t.Errorf("failure error = %q", failures[0].Err)
			}

			for _, name := range append(neighbours, "music.csv") {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("%s was removed: %v", name, err)
				}
			}
		})
	}
}

func TestPartialTarget(t *testing.T) {
	out := filepath.Join("data", "music")
	tests := []struct {
		title    string
		wantDir  string
		wantStem string
		wantOK   bool
	}{
		{"Song", out, "Song", true},
		{"a/b", filepath.Join(out, "a"), "b", true},
		{"./Song", out, "Song", true},
		{"a/../Song", out, "Song", true},
		{"", "", "", false},
		{".", "", "", false},
		{"..", "", "", false},
		{"../music.csv", "", "", false},
		{"a/..", "", "", false},
		{"../../x", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			dir, stem, ok := partialTarget(out, tt.title)
			if dir != tt.wantDir || stem != tt.wantStem || ok != tt.wantOK {
				t.Errorf("partialTarget(%q) = %q, %q, %v; want %q, %q, %v", tt.title, dir, stem, ok, tt.wantDir, tt.wantStem, tt.wantOK)
			}
		})
	}
}

func TestReportLines(t *testing.T) {
	failures := []model.Outcome{
		model.Failed(2, model.NewTrack(2, "Song", "https://x"), errors.New("nope")),
	}

	got := strings.Join(ReportLines(failures, 5), "\n")
	want := "--- Error Report ---\n1 of 5 tracks failed:\n  Song\n    URL:   https://x\n    Error: nope"
	if got != want {
		t.Errorf("ReportLines =\n%s\nwant\n%s", got, want)
	}
}
