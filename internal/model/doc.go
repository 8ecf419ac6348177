// Package model defines the core data structures shared by the catalog
// builder, the batch downloader and the interactive front ends.
//
// # Track
//
// Track is one catalog entry: a 1-based track number, a title that doubles
// as the output filename stem, and an absolute URL.
//
//	track := model.NewTrack(1, "Song Title", "https://www.youtube.com/watch?v=abc")
//	fmt.Println(track.FileName("mp3")) // "Song Title.mp3"
//
// Tracks loaded from a CSV file also keep their original columns in Fields so
// that failed rows can be copied verbatim into an error report.
//
// # Catalog
//
// Catalog is the ordered list of tracks read from (or written to) a CSV file:
//
//	cat := model.NewCatalog("/music/tracks.csv", tracks)
//	fmt.Println(cat.Name)              // "tracks"
//	fmt.Println(cat.ErrorReportPath()) // "/music/tracks - error report.csv"
//
// # Outcome
//
// Outcome records how one track of a download run ended. There are exactly
// two terminal states, StatusSucceeded and StatusFailed.
package model
