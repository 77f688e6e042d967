// Package model defines the core data structures shared across the
// nexus-downloader pipeline.
//
// # DownloadRequest
//
// DownloadRequest is the unit of work flowing through the pipeline:
//
//	req := model.DownloadRequest{GameDomain: "skyrimse", ModID: 1, FileID: 2, Filename: "mod.zip"}
//	if req.Valid() {
//	    // resolve and download
//	}
//
// # Error taxonomy
//
// The package also defines the sentinel error kinds every component
// wraps its failures with, so the orchestrator can branch on the kind
// of failure:
//
//	if errors.Is(err, model.ErrNoLinks) {
//	    // API responded, nothing to download
//	}
package model
