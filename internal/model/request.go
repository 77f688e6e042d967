package model

import "fmt"

// DownloadRequest identifies one Nexus-hosted file to fetch.
//
// A request is produced either by the Wabbajack manifest extractor or by
// manual input, and is consumed exactly once by the resolve+download
// pipeline. Requests are value types and are never mutated after
// construction.
//
// Example:
//
//	req := model.DownloadRequest{
//	    GameDomain: "skyrimse",
//	    ModID:      12345,
//	    FileID:     67890,
//	    Filename:   "MyAwesomeMod.zip",
//	}
type DownloadRequest struct {
	// GameDomain is the game identifier as it appears in the manifest
	// or user input. It is normalized to a Nexus API slug at resolve
	// time, not here.
	GameDomain string

	// ModID is the numeric Nexus mod identifier.
	ModID int

	// FileID is the numeric Nexus file identifier within the mod.
	FileID int

	// Filename is the desired local filename for the archive.
	Filename string
}

// Valid reports whether all four fields are present. Manifest entries
// that fail this check are dropped rather than surfaced as errors.
func (r DownloadRequest) Valid() bool {
	return r.GameDomain != "" && r.ModID != 0 && r.FileID != 0 && r.Filename != ""
}

// String renders the request as the domain/mod/file triple used in
// progress messages.
func (r DownloadRequest) String() string {
	return fmt.Sprintf("%s/%d/%d", r.GameDomain, r.ModID, r.FileID)
}
