package tui

import "strings"

// Action is a top-level menu choice.
type Action int

const (
	ActionCatalog Action = iota
	ActionDownload
)

// menuItems are shown in this order.
var menuItems = []struct {
	Action Action
	Label  string
}{
	{ActionCatalog, "Catalog a YouTube playlist"},
	{ActionDownload, "Download tracks from a catalog"},
}

// prompt is one question asked before an action runs.
type prompt struct {
	Label    string
	Default  string
	Required string // validation message when blank; empty means optional
}

func promptsFor(action Action, defaultCatalog, defaultOutputDir string) []prompt {
	switch action {
	case ActionDownload:
		return []prompt{
			{Label: "Path to catalog CSV:", Required: "CSV path cannot be empty."},
			{Label: "Output directory:", Default: defaultOutputDir},
		}
	default:
		return []prompt{
			{Label: "Enter YouTube playlist URL:", Required: "URL cannot be empty."},
			{Label: "Output CSV path:", Default: defaultCatalog},
		}
	}
}

// CleanInput trims surrounding whitespace and then strips surrounding
// matching quote pairs, so a path pasted as "My Music/tracks.csv" or
// 'tracks.csv' is used without its quotes.
func CleanInput(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'') {
			break
		}
		s = s[1 : len(s)-1]
	}
	return s
}
