// Package download runs a catalog through the audio fetcher.
//
// # Manager
//
// The Manager processes one catalog per Run:
//
//  1. Create the output directory
//  2. Load and validate the catalog
//  3. Take a per-catalog lock so two runs cannot share an output
//  4. Fetch every track in order, one at a time
//  5. Tag each produced MP3 and embed the video thumbnail (optional)
//  6. Write a playlist of the successful tracks (optional)
//  7. Write "<catalog> - error report.csv" with the rows that failed
//
// A failed track never stops the run. Its partial files are removed and its
// original CSV row is copied to the error report.
//
// # Basic Usage
//
//	fetcher := youtube.NewCommandFetcher(tool)
//	manager := download.NewManager(settings, fetcher, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := manager.Run(ctx, model.DownloadRequest{
//	    CatalogPath: "tracks.csv",
//	    OutputDir:   "./output",
//	})
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress can be polled from another goroutine for counters.
package download
