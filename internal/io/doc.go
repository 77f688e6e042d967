// Package ioutils provides file system utilities for nexus-downloader.
//
// This package contains functions for:
//   - Filename sanitization
//   - Reducing untrusted manifest names to safe file names
//   - Directory creation
//
// Use SafeFileName on anything that came out of a manifest or user
// input before joining it to the download directory:
//
//	dest := filepath.Join(downloadDir, ioutils.SafeFileName(req.Filename))
package ioutils
