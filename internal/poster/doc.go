// Package poster drives the end-to-end generation of event posters.
//
// A Manager takes events (concerts or sports matches), asks the image
// generator for artwork, stores it under the output directory and draws
// the event text on it with the overlay package.
//
// # Basic Usage
//
//	manager, err := poster.Build(settings, logger, func(e poster.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//
//	events, _ := poster.LoadEvents("events.json")
//	manager.Initialize(events)
//
//	results, err := manager.Run(ctx)
//	for _, r := range results {
//	    if r.Err == nil {
//	        fmt.Println(r.PosterPath)
//	    }
//	}
//
// # Concurrency
//
// Events run in parallel up to Settings.MaxConcurrentEvents. Two events
// resolving to the same image file never run at the same time.
package poster
