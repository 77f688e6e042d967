// Package http provides the HTTP client used to fetch resolved
// download URIs.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Streamed downloads in fixed-size chunks with progress tracking
//   - Removal of partially written files on mid-stream failure
//
// # Basic Usage
//
//	client := http.NewClient(60 * time.Second)
//	err := client.DownloadFile(ctx, uri, "downloads/mod.zip", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can wrap any io.Writer for progress tracking.
// A server that declares no Content-Length yields Total == 0; the
// callback still fires with the running byte count.
package http
