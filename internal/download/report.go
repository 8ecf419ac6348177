package download

import (
	"fmt"

	"github.com/kittenwhisky/yoto-maker/internal/model"
)

// Report summarizes a finished run.
type Report struct {
	Total    int
	Outcomes []model.Outcome

	// ErrorReportPath is set when failed rows were written to a CSV.
	ErrorReportPath string

	// PlaylistPath is set when a playlist file was written.
	PlaylistPath string
}

// Failures returns the failed outcomes in catalog order.
func (r *Report) Failures() []model.Outcome {
	return model.Failures(r.Outcomes)
}

// Succeeded counts successful outcomes.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// ReportHeader opens the failure report block emitted at the end of a run.
const ReportHeader = "--- Error Report ---"

// ReportLines renders the consolidated failure report.
//
//	--- Error Report ---
//	2 of 10 tracks failed:
//	  Title
//	    URL:   https://...
//	    Error: ERROR: Video unavailable
func ReportLines(failures []model.Outcome, total int) []string {
	lines := []string{
		ReportHeader,
		fmt.Sprintf("%d of %d tracks failed:", len(failures), total),
	}
	for _, o := range failures {
		lines = append(lines,
			"  "+o.Track.Title,
			"    URL:   "+o.Track.URL,
			"    Error: "+o.Err,
		)
	}
	return lines
}
