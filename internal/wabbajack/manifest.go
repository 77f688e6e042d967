package wabbajack

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/modhoard/nexus-downloader/internal/model"
)

// nexusStateMarker tags archive download states sourced from Nexus Mods.
// The manifest $type string carries the full .NET type name, so a
// substring match is the contract here.
const nexusStateMarker = "NexusDownloader"

// document is the slice of a Wabbajack modlist we care about. Archives
// is a pointer so a manifest missing the collection entirely can be
// told apart from one with an empty list.
type document struct {
	Archives *[]archive `json:"Archives"`
}

type archive struct {
	Name  string `json:"Name"`
	State state  `json:"State"`
}

type state struct {
	Type     string `json:"$type"`
	ModID    int    `json:"ModID"`
	FileID   int    `json:"FileID"`
	GameName string `json:"GameName"`
}

// Extract parses a Wabbajack modlist manifest and returns its
// Nexus-backed archives as download requests, in manifest order.
// Duplicates are preserved.
//
// Entries qualify when their State $type contains the Nexus downloader
// marker and all of mod id, file id, game name and display name are
// present; anything else is silently dropped. filter, when non-empty,
// additionally keeps only entries whose display name or game name
// contains it (case-insensitive).
//
// A missing or malformed file yields model.ErrParse. A manifest without
// an Archives collection yields model.ErrStructure, which callers treat
// as an empty result rather than a hard abort.
func Extract(path, filter string) ([]model.DownloadRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", model.ErrParse, path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", model.ErrParse, path, err)
	}

	if doc.Archives == nil {
		return nil, fmt.Errorf("%w: no Archives collection at the document root", model.ErrStructure)
	}

	filterLower := strings.ToLower(filter)

	var requests []model.DownloadRequest
	for _, entry := range *doc.Archives {
		if !strings.Contains(entry.State.Type, nexusStateMarker) {
			continue
		}

		req := model.DownloadRequest{
			GameDomain: entry.State.GameName,
			ModID:      entry.State.ModID,
			FileID:     entry.State.FileID,
			Filename:   entry.Name,
		}
		if !req.Valid() {
			continue
		}

		if filterLower != "" &&
			!strings.Contains(strings.ToLower(entry.Name), filterLower) &&
			!strings.Contains(strings.ToLower(entry.State.GameName), filterLower) {
			continue
		}

		requests = append(requests, req)
	}

	return requests, nil
}
