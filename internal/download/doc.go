// Package download provides the orchestration logic for resolving and
// fetching mod archives.
//
// # Manager
//
// The Manager drives the whole pipeline for each selected item:
//
//  1. Extract download candidates from a Wabbajack manifest (or accept
//     a manually built request)
//  2. Resolve each candidate into a signed download URI via the Nexus
//     Mods API
//  3. Stream the archive into the download directory with progress
//     reporting
//
// # Basic Usage
//
//	manager := download.NewManager(settings, apiKey, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.LoadManifest("modlist.wabbajack.json", "skyrim"); err != nil {
//	    // manifest unreadable
//	}
//	results := manager.DownloadAll(ctx, nil)
//
// Execution is strictly sequential: one network call outstanding at a
// time, one file open at a time. A failed item is reported with the
// stage it failed in and the batch continues.
//
// # Retry Logic
//
// Transport-level failures are retried with exponential backoff per
// settings.MaxRetries, RetryCooldown and RetryExponent. API rejections
// and filesystem errors are not retried.
package download
