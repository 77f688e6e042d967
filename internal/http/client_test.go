package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/modhoard/nexus-downloader/internal/model"
)

func TestDownloadFile_Success(t *testing.T) {
	body := strings.Repeat("x", 3*chunkSize+17)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write([]byte(body))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mod.zip")
	client := NewClient(5 * time.Second)

	var lastWritten, lastTotal int64
	err := client.DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != body {
		t.Errorf("file content mismatch: got %d bytes, want %d", len(data), len(body))
	}
	if lastWritten != int64(len(body)) {
		t.Errorf("last reported written = %d, want %d", lastWritten, len(body))
	}
	if lastTotal != int64(len(body)) {
		t.Errorf("last reported total = %d, want %d", lastTotal, len(body))
	}
}

// A declared length of zero (or none at all) must not gate the write:
// every body byte still lands on disk, with progress reporting an
// unknown total.
func TestDownloadFile_UnknownContentLength(t *testing.T) {
	body := strings.Repeat("y", chunkSize+5)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before writing forces chunked encoding with no
		// Content-Length header.
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write([]byte(body))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mod.zip")
	client := NewClient(5 * time.Second)

	var lastTotal int64 = -1
	err := client.DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if len(data) != len(body) {
		t.Errorf("wrote %d bytes, want %d", len(data), len(body))
	}
	if lastTotal != 0 {
		t.Errorf("total = %d, want 0 for unknown length", lastTotal)
	}
}

func TestDownloadFile_MidStreamFailureCleansUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Declare far more than we send, then return: the client sees
		// an unexpected EOF mid-stream.
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("only a little"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mod.zip")
	client := NewClient(5 * time.Second)

	err := client.DownloadFile(context.Background(), server.URL, dest, nil)
	if err == nil {
		t.Fatal("expected mid-stream failure")
	}
	if !errors.Is(err, model.ErrNetwork) {
		t.Errorf("error %v should match model.ErrNetwork", err)
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("partial file %s should have been removed", dest)
	}
}

func TestDownloadFile_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mod.zip")
	client := NewClient(5 * time.Second)

	err := client.DownloadFile(context.Background(), server.URL, dest, nil)
	if !errors.Is(err, model.ErrHTTP) {
		t.Errorf("error %v should match model.ErrHTTP", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("no file should exist after a bad status")
	}
}

func TestProgressWriter_CountsBytes(t *testing.T) {
	var updates []int64
	pw := &ProgressWriter{
		Writer: &strings.Builder{},
		Total:  10,
		OnUpdate: func(written, total int64) {
			updates = append(updates, written)
		},
	}

	pw.Write([]byte("hello"))
	pw.Write([]byte{})
	pw.Write([]byte("world"))

	if pw.Written != 10 {
		t.Errorf("Written = %d, want 10", pw.Written)
	}
	// The empty keep-alive write must not fire an update.
	if len(updates) != 2 || updates[0] != 5 || updates[1] != 10 {
		t.Errorf("updates = %v, want [5 10]", updates)
	}
}
