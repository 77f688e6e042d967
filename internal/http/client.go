package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/modhoard/nexus-downloader/internal/model"
)

// chunkSize is the fixed read/write granularity for streamed downloads.
const chunkSize = 8 * 1024

// Client wraps HTTP operations for fetching resolved archive URIs.
//
// Client provides:
//   - Configured User-Agent header
//   - Explicit timeout handling
//   - Streamed file download with byte-count progress tracking
//   - Partial-file cleanup on mid-stream failure
//
// Example usage:
//
//	client := NewClient(60 * time.Second)
//	err := client.DownloadFile(ctx, uri, "downloads/mod.zip", func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\r", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a download client. The timeout bounds the whole
// transfer; zero disables it.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "nexus-dl",
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Total is taken from the Content-Length header and may be 0 when the
// server did not declare a length; byte counting proceeds regardless.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, 0 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each non-empty write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil && n > 0 {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// ioErrWriter tags write failures as filesystem errors so they can be
// told apart from read-side transport failures after io.CopyBuffer.
type ioErrWriter struct {
	w io.Writer
}

func (w ioErrWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		err = fmt.Errorf("%w: %v", model.ErrIO, err)
	}
	return n, err
}

// DownloadFile streams url to destPath in fixed-size chunks, reporting
// progress through onProgress (pass nil to disable).
//
// Failure modes:
//   - transport failure opening the stream: model.ErrNetwork
//   - non-200 status: model.ErrHTTP
//   - failure creating or writing the file: model.ErrIO
//   - transport failure mid-stream: model.ErrNetwork
//
// On any failure after the file was created, the partial file is
// removed best-effort so a corrupt download never masquerades as
// complete.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", model.ErrInternal, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s fetching %s", model.ErrHTTP, resp.Status, url)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", model.ErrIO, destPath, err)
	}

	var writer io.Writer = ioErrWriter{w: file}
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   writer,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	_, err = io.CopyBuffer(writer, resp.Body, make([]byte, chunkSize))
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: closing %s: %v", model.ErrIO, destPath, closeErr)
	}

	if err != nil {
		if !errors.Is(err, model.ErrIO) {
			err = fmt.Errorf("%w: %v", model.ErrNetwork, err)
		}
		os.Remove(destPath) // best effort, never keep a partial file
		return err
	}

	return nil
}
