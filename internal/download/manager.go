package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/kittenwhisky/yoto-maker/internal/audio"
	"github.com/kittenwhisky/yoto-maker/internal/catalog"
	"github.com/kittenwhisky/yoto-maker/internal/config"
	"github.com/kittenwhisky/yoto-maker/internal/http"
	ioutils "github.com/kittenwhisky/yoto-maker/internal/io"
	"github.com/kittenwhisky/yoto-maker/internal/model"
	"github.com/kittenwhisky/yoto-maker/internal/youtube"
)

// ErrLocked is returned when another run is already processing the same catalog.
var ErrLocked = errors.New("catalog is already being downloaded by another process")

// ErrUnsafeTitle is recorded for tracks whose title would place the audio
// file outside the output directory.
var ErrUnsafeTitle = errors.New("title does not name a file inside the output directory")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHTTPClient sets the client used for thumbnails.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithLockDir sets where run lock files are created. Defaults to os.TempDir().
func WithLockDir(dir string) Option {
	return func(m *Manager) {
		m.lockDir = dir
	}
}

// Manager runs a catalog through the fetcher one track at a time.
type Manager struct {
	settings     *config.Settings
	fetcher      youtube.Fetcher
	httpClient   *http.Client
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService
	logger       *slog.Logger
	lockDir      string

	totalFiles     int32
	processedFiles int32
	failedFiles    int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager. onProgress may be nil.
func NewManager(settings *config.Settings, fetcher youtube.Fetcher, onProgress func(ProgressEvent), opts ...Option) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	tagConfig := audio.DefaultTagConfig()
	tagConfig.ModifyTags = settings.Download.ModifyTags

	m := &Manager{
		settings:     settings,
		fetcher:      fetcher,
		httpClient:   http.NewClientWithTimeout(time.Duration(settings.Download.ThumbnailTimeout) * time.Second),
		tagger:       audio.NewTagger(tagConfig),
		playlist:     audio.NewPlaylistCreator(model.ParsePlaylistFormat(settings.Download.PlaylistFormat), settings.Download.M3UExtended),
		imageService: ioutils.NewImageService(),
		logger:       slog.New(slog.DiscardHandler),
		lockDir:      os.TempDir(),
		onProgress:   onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetProgress returns how many tracks have been processed and how many of
// those failed, out of total.
func (m *Manager) GetProgress() (processed, failed, total int32) {
	return atomic.LoadInt32(&m.processedFiles), atomic.LoadInt32(&m.failedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Run downloads every track of the catalog at req.CatalogPath into
// req.OutputDir. Per-track failures are collected in the report; the
// returned error is reserved for problems that stop the whole run (an
// unreadable catalog, lock contention, a failed error report write, or
// cancellation).
func (m *Manager) Run(ctx context.Context, req model.DownloadRequest) (*Report, error) {
	if err := ioutils.EnsureDir(req.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	cat, err := catalog.Load(req.CatalogPath)
	if err != nil {
		return nil, err
	}

	lock, err := m.acquireLock(cat.Path)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	logger := m.logger.With("run_id", uuid.NewString(), "catalog", cat.Path)
	logger.Info("download run started", "tracks", cat.Len(), "output_dir", req.OutputDir)
	started := time.Now()

	total := cat.Len()
	atomic.StoreInt32(&m.totalFiles, int32(total))
	atomic.StoreInt32(&m.processedFiles, 0)
	atomic.StoreInt32(&m.failedFiles, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %d tracks...", total), Level: LevelInfo})

	report := &Report{Total: total, Outcomes: make([]model.Outcome, 0, total)}
	for i, track := range cat.Tracks {
		if err := ctx.Err(); err != nil {
			logger.Warn("download run canceled", "completed", i)
			return nil, err
		}

		outcome, err := m.downloadTrack(ctx, logger, cat, track, i+1, req.OutputDir)
		if err != nil {
			logger.Warn("download run canceled", "completed", i)
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if m.settings.Download.CreatePlaylist {
		report.PlaylistPath = m.writePlaylist(cat, req.OutputDir, report.Outcomes)
	}

	failures := report.Failures()
	if len(failures) == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("All %d tracks downloaded successfully!", total), Level: LevelSuccess})
	} else {
		for _, line := range ReportLines(failures, total) {
			m.progress(ProgressEvent{Message: line, Level: LevelError})
		}
		path := cat.ErrorReportPath()
		if err := catalog.WriteReport(path, failures); err != nil {
			return report, err
		}
		report.ErrorReportPath = path
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error CSV saved to: %s", path), Level: LevelInfo})
	}

	logger.Info("download run finished",
		"succeeded", report.Succeeded(),
		"failed", len(failures),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return report, nil
}

// downloadTrack fetches one track. The error is non-nil only when ctx was
// canceled; fetch failures become a failed outcome.
func (m *Manager) downloadTrack(ctx context.Context, logger *slog.Logger, cat *model.Catalog, track *model.Track, position int, outputDir string) (model.Outcome, error) {
	total := cat.Len()
	codec := m.settings.Download.AudioCodec

	if _, _, ok := partialTarget(outputDir, track.Title); !ok {
		err := fmt.Errorf("%w: %q", ErrUnsafeTitle, track.Title)
		atomic.AddInt32(&m.failedFiles, 1)
		atomic.AddInt32(&m.processedFiles, 1)
		logger.Warn("track skipped", "position", position, "title", track.Title, "error", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("  [%d/%d] %s ✗ %v", position, total, track.Title, err), Level: LevelError})
		return model.Failed(position, track, err), nil
	}

	logger.Debug("fetching track", "position", position, "title", track.Title, "url", track.URL)
	err := m.fetcher.FetchAudio(ctx, youtube.FetchRequest{
		URL:            track.URL,
		OutputTemplate: youtube.OutputTemplate(outputDir, track.Title),
		Format:         m.settings.Download.Format,
		AudioCodec:     codec,
		AudioQuality:   m.settings.Download.AudioQuality,
	})
	if err != nil {
		m.cleanup(logger, outputDir, track.Title, codec)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Outcome{}, ctxErr
		}

		atomic.AddInt32(&m.failedFiles, 1)
		atomic.AddInt32(&m.processedFiles, 1)
		logger.Warn("track failed", "position", position, "title", track.Title, "error", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("  [%d/%d] %s ✗ %v", position, total, track.Title, err), Level: LevelError})
		return model.Failed(position, track, err), nil
	}

	atomic.AddInt32(&m.processedFiles, 1)
	path := filepath.Join(outputDir, track.FileName(codec))
	m.progress(ProgressEvent{Message: fmt.Sprintf("  [%d/%d] %s ✓", position, total, track.Title), Level: LevelSuccess})

	m.postProcess(ctx, logger, cat, track, path)
	return model.Succeeded(position, track, path), nil
}

// postProcess tags the produced file. Failures only emit warnings.
func (m *Manager) postProcess(ctx context.Context, logger *slog.Logger, cat *model.Catalog, track *model.Track, path string) {
	dl := m.settings.Download
	if !strings.EqualFold(dl.AudioCodec, "mp3") || (!dl.ModifyTags && !dl.SaveCoverArtInTags) {
		return
	}
	if _, err := os.Stat(path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Expected output not found for %s: %v", track.Title, err), Level: LevelWarning})
		return
	}

	var artwork []byte
	if dl.SaveCoverArtInTags {
		var err error
		artwork, err = m.downloadArtwork(ctx, track)
		if err != nil {
			logger.Debug("artwork unavailable", "title", track.Title, "error", err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("No cover art for %s: %v", track.Title, err), Level: LevelVerbose})
		}
	}

	tags := audio.Tags{
		Title:     track.Title,
		Album:     cat.Name,
		Number:    track.Number,
		SourceURL: track.URL,
	}
	if err := m.tagger.SaveTags(path, tags, artwork); err != nil {
		logger.Warn("tagging failed", "path", path, "error", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", track.Title, err), Level: LevelWarning})
	}
}

// downloadArtwork fetches the video thumbnail and prepares it for embedding.
func (m *Manager) downloadArtwork(ctx context.Context, track *model.Track) ([]byte, error) {
	videoID, ok := youtube.VideoID(track.URL)
	if !ok {
		return nil, fmt.Errorf("no video ID in %s", track.URL)
	}

	artwork, err := m.httpClient.DownloadBytes(ctx, youtube.ThumbnailURL(videoID))
	if err != nil {
		return nil, err
	}

	maxSize := m.settings.Download.CoverArtInTagsMaxSize
	if resized, err := m.imageService.ResizeImage(ctx, artwork, maxSize, maxSize); err == nil {
		artwork = resized
	}
	return m.imageService.ConvertToJPEG(ctx, artwork)
}

// cleanup removes leftovers of a failed fetch, keeping any finished file.
func (m *Manager) cleanup(logger *slog.Logger, outputDir, title, codec string) {
	dir, stem, ok := partialTarget(outputDir, title)
	if !ok {
		logger.Warn("skipping cleanup", "title", title, "output_dir", outputDir)
		return
	}
	removed := ioutils.RemovePartials(dir, stem, "."+codec)
	if len(removed) > 0 {
		logger.Debug("removed partial files", "title", title, "files", removed)
	}
}

// partialTarget splits the path a title resolves to under outputDir into its
// directory and file stem. It reports false when the stem is empty, "." or
// "..", or when the directory is not outputDir or one of its descendants.
func partialTarget(outputDir, title string) (dir, stem string, ok bool) {
	if strings.TrimSpace(title) == "" {
		return "", "", false
	}
	root := filepath.Clean(outputDir)
	full := filepath.Join(root, title)
	dir, stem = filepath.Dir(full), filepath.Base(full)
	if stem == "." || stem == ".." || full == root {
		return "", "", false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", false
	}
	return dir, stem, true
}

func (m *Manager) writePlaylist(cat *model.Catalog, outputDir string, outcomes []model.Outcome) string {
	entries := audio.PlaylistEntries(outcomes)
	if len(entries) == 0 {
		return ""
	}

	format := model.ParsePlaylistFormat(m.settings.Download.PlaylistFormat)
	path := cat.PlaylistPath(outputDir, format)
	content := m.playlist.CreatePlaylist(entries)
	if err := ioutils.WriteFileAtomic(path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return ""
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist: %s", path), Level: LevelSuccess})
	return path
}

func (m *Manager) acquireLock(catalogPath string) (*flock.Flock, error) {
	abs, err := filepath.Abs(catalogPath)
	if err != nil {
		abs = catalogPath
	}
	sum := sha256.Sum256([]byte(abs))
	name := "yoto-maker-" + hex.EncodeToString(sum[:8]) + ".lock"

	lock := flock.New(filepath.Join(m.lockDir, name))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock catalog: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, catalogPath)
	}
	return lock, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
