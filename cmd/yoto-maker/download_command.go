package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kittenwhisky/yoto-maker/internal/download"
	"github.com/kittenwhisky/yoto-maker/internal/model"
	"github.com/kittenwhisky/yoto-maker/internal/tui"
	"github.com/spf13/cobra"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var playlist bool

	cmd := &cobra.Command{
		Use:   "download <catalog.csv>",
		Short: "Download every track of a CSV catalog as MP3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}

			req := model.DownloadRequest{
				CatalogPath: tui.CleanInput(args[0]),
				OutputDir:   tui.CleanInput(outputDir),
			}
			if req.OutputDir == "" {
				req.OutputDir = settings.Download.DefaultOutputDir
			}
			if playlist {
				settings.Download.CreatePlaylist = true
			}

			out := cmd.OutOrStdout()
			manager := download.NewManager(settings, ctx.fetcher(),
				newEventPrinter(out, ctx.isVerbose()).print,
				download.WithLogger(logger))

			report, err := manager.Run(cmd.Context(), req)
			if report != nil {
				fmt.Fprintln(out)
				if failures := report.Failures(); len(failures) > 0 {
					fmt.Fprintln(out, renderFailures(failures))
				}
				fmt.Fprintln(out, renderSummary(report))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the MP3 files (default from config, ./output)")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "Write a playlist file next to the downloads")
	return cmd
}

// eventPrinter writes progress events line by line. The plain-text failure
// block is left out because the command renders it as a table afterwards.
type eventPrinter struct {
	out      io.Writer
	verbose  bool
	inReport bool
}

func newEventPrinter(out io.Writer, verbose bool) *eventPrinter {
	return &eventPrinter{out: out, verbose: verbose}
}

func (p *eventPrinter) print(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !p.verbose {
		return
	}
	if event.Message == download.ReportHeader {
		p.inReport = true
	}
	if p.inReport {
		if event.Level == download.LevelError {
			return
		}
		p.inReport = false
	}

	prefix := ""
	switch event.Level {
	case download.LevelWarning:
		prefix = "warning: "
	case download.LevelVerbose:
		prefix = "   "
	}
	fmt.Fprintln(p.out, prefix+event.Message)
}

func renderFailures(failures []model.Outcome) string {
	rows := make([][]string, 0, len(failures))
	for _, o := range failures {
		rows = append(rows, []string{strconv.Itoa(o.Position), o.Track.Title, o.Track.URL, o.Err})
	}
	return renderTable(
		[]string{"#", "Title", "URL", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderSummary(report *download.Report) string {
	failed := len(report.Failures())
	rows := [][]string{
		{"Tracks", strconv.Itoa(report.Total)},
		{"Downloaded", strconv.Itoa(report.Succeeded())},
		{"Failed", strconv.Itoa(failed)},
	}
	if report.ErrorReportPath != "" {
		rows = append(rows, []string{"Error report", report.ErrorReportPath})
	}
	if report.PlaylistPath != "" {
		rows = append(rows, []string{"Playlist", report.PlaylistPath})
	}
	return renderTable([]string{"Summary", ""}, rows, nil)
}
