// Package wabbajack parses Wabbajack modlist manifests.
//
// A manifest is a JSON document with a top-level "Archives" array. Each
// archive carries a "State" object whose "$type" tag names the
// downloader that sourced it; only Nexus-backed entries are of interest
// here.
//
//	requests, err := wabbajack.Extract("modlist.wabbajack.json", "skyrim")
//	for _, req := range requests {
//	    fmt.Println(req.Filename, req)
//	}
//
// Extraction is lossy on purpose: entries missing any identifying field
// are dropped, and an optional filter substring narrows the result by
// display name or game name.
package wabbajack
