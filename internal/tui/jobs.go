package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kittenwhisky/yoto-maker/internal/catalog"
	"github.com/kittenwhisky/yoto-maker/internal/download"
	"github.com/kittenwhisky/yoto-maker/internal/model"
)

// start launches the chosen action in the background. Progress events and
// the final DoneMsg arrive through m.events.
func (m Model) start() (tea.Model, tea.Cmd) {
	events := make(chan tea.Msg, 64)
	m.events = events
	m.state = StateRunning
	m.logs = nil

	ctx := m.ctx
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}
	onProgress := func(e download.ProgressEvent) {
		send(ProgressMsg{Event: e})
	}

	var job func() (string, error)
	switch m.action {
	case ActionDownload:
		req := model.DownloadRequest{CatalogPath: m.answers[0], OutputDir: m.answers[1]}
		manager := download.NewManager(m.opts.Settings, m.opts.Fetcher, onProgress, download.WithLogger(m.opts.Logger))
		m.manager = manager
		job = func() (string, error) {
			report, err := manager.Run(ctx, req)
			if err != nil {
				return "", err
			}
			return downloadSummary(report), nil
		}
	default:
		req := model.CatalogRequest{PlaylistURL: m.answers[0], OutputPath: m.answers[1]}
		builder := catalog.NewBuilder(m.opts.Provider, m.opts.Logger, func(msg string) {
			onProgress(download.ProgressEvent{Message: msg, Level: download.LevelInfo})
		})
		job = func() (string, error) {
			n, err := builder.Build(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved %d tracks to %s", n, req.OutputPath), nil
		}
	}

	go func() {
		defer close(events)
		result, err := job()
		deliverDone(ctx, events, DoneMsg{Result: result, Err: err})
	}()

	cmds := []tea.Cmd{waitForEvent(events), m.spinner.Tick}
	if m.manager != nil {
		cmds = append(cmds, tickProgress())
	}
	return m, tea.Batch(cmds...)
}

// deliverDone sends msg while the job context is live. Once it is canceled
// the message only goes out if the buffer has room; the reader may already be
// gone, and waitForEvent reports a closed channel as a canceled job.
func deliverDone(ctx context.Context, events chan<- tea.Msg, msg DoneMsg) {
	select {
	case events <- msg:
		return
	case <-ctx.Done():
	}
	select {
	case events <- msg:
	default:
	}
}

func downloadSummary(report *download.Report) string {
	s := fmt.Sprintf("Tracks: %d\nDownloaded: %d\nFailed: %d", report.Total, report.Succeeded(), len(report.Failures()))
	if report.ErrorReportPath != "" {
		s += "\nError report: " + report.ErrorReportPath
	}
	if report.PlaylistPath != "" {
		s += "\nPlaylist: " + report.PlaylistPath
	}
	return s
}
