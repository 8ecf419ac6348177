package model

// Status is the terminal state of one track in a download run.
type Status int

const (
	// StatusSucceeded means the audio file was produced.
	StatusSucceeded Status = iota

	// StatusFailed means the fetch reported an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one track.
type Outcome struct {
	// Position is the 1-based index within the run.
	Position int

	Track  *Track
	Status Status

	// Err is the error text reported by the fetcher. Empty on success.
	Err string

	// Path is the produced file. Empty on failure.
	Path string
}

// Succeeded builds a successful outcome.
func Succeeded(position int, track *Track, path string) Outcome {
	return Outcome{Position: position, Track: track, Status: StatusSucceeded, Path: path}
}

// Failed builds a failed outcome carrying the error text.
func Failed(position int, track *Track, err error) Outcome {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Outcome{Position: position, Track: track, Status: StatusFailed, Err: msg}
}

// OK reports whether the outcome is StatusSucceeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSucceeded
}

// Failures filters the failed outcomes, preserving order.
func Failures(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}
