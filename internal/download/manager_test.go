package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/modhoard/nexus-downloader/internal/config"
	"github.com/modhoard/nexus-downloader/internal/model"
)

const archiveContent = "pretend this is a mod archive"

// newTestServers starts a file server and an API server whose
// download_link.json responses point at the file server. Mod ID 404
// resolves to an API rejection, any other mod resolves successfully.
func newTestServers(t *testing.T) (api *httptest.Server) {
	t.Helper()

	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archiveContent))
	}))
	t.Cleanup(files.Close)

	api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"missing api key"}`))
			return
		}
		if r.URL.Path == "/v1/games/skyrimspecialedition/mods/404/files/1/download_link.json" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"file not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[{"URI":%q,"name":"Primary Download"}]`, files.URL+"/archive")
	}))
	t.Cleanup(api.Close)

	return api
}

func newTestManager(t *testing.T, apiURL string, onProgress func(ProgressEvent)) (*Manager, string) {
	t.Helper()
	downloadDir := filepath.Join(t.TempDir(), "downloads")
	settings := &config.Settings{
		DownloadDir:        downloadDir,
		APIBaseURL:         apiURL,
		HTTPTimeoutSeconds: 5,
		MaxRetries:         1,
		RetryCooldown:      0.01,
		RetryExponent:      1.0,
	}
	return NewManager(settings, "test-key", zap.NewNop(), onProgress), downloadDir
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modlist.wabbajack.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// One qualifying entry in the manifest, a matching filter, a selection
// of that item: exactly one resolve+download cycle, one file on disk.
func TestManager_EndToEnd(t *testing.T) {
	api := newTestServers(t)

	var events []ProgressEvent
	manager, downloadDir := newTestManager(t, api.URL, func(event ProgressEvent) {
		events = append(events, event)
	})

	manifest := writeManifest(t, `{
		"Archives": [
			{
				"Name": "Great Mod.zip",
				"State": {"$type": "NexusDownloader, Wabbajack.Lib", "ModID": 100, "FileID": 1, "GameName": "SkyrimSE"}
			},
			{
				"Name": "Unrelated Tool.7z",
				"State": {"$type": "HttpDownloader, Wabbajack.Lib", "Url": "https://example.com/t.7z"}
			}
		]
	}`)

	if err := manager.LoadManifest(manifest, "great"); err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	requests := manager.Requests()
	if len(requests) != 1 {
		t.Fatalf("got %d candidates, want 1", len(requests))
	}

	result := manager.DownloadOne(context.Background(), requests[0], nil)
	if !result.OK() {
		t.Fatalf("DownloadOne failed at %s: %v", result.Stage, result.Err)
	}

	data, err := os.ReadFile(filepath.Join(downloadDir, "Great Mod.zip"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != archiveContent {
		t.Errorf("file content = %q, want %q", data, archiveContent)
	}

	var success bool
	for _, event := range events {
		if event.Level == LevelSuccess {
			success = true
		}
	}
	if !success {
		t.Error("expected a success progress event")
	}
}

func TestManager_BatchContinuesPastFailure(t *testing.T) {
	api := newTestServers(t)
	manager, downloadDir := newTestManager(t, api.URL, nil)

	manager.SetRequests([]model.DownloadRequest{
		{GameDomain: "SkyrimSE", ModID: 404, FileID: 1, Filename: "Broken.zip"},
		{GameDomain: "SkyrimSE", ModID: 100, FileID: 1, Filename: "Works.zip"},
	})

	results := manager.DownloadAll(context.Background(), nil)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].OK() {
		t.Error("first item should have failed")
	}
	if results[0].Stage != model.StageResolve {
		t.Errorf("first item failed at %s, want resolve", results[0].Stage)
	}
	if !errors.Is(results[0].Err, model.ErrAPI) {
		t.Errorf("first item error %v should match model.ErrAPI", results[0].Err)
	}

	if !results[1].OK() {
		t.Fatalf("second item should have succeeded: %v", results[1].Err)
	}
	if _, err := os.Stat(filepath.Join(downloadDir, "Works.zip")); err != nil {
		t.Errorf("second item's file missing: %v", err)
	}

	done, total, _, _ := manager.GetProgress()
	if done != 1 || total != 2 {
		t.Errorf("GetProgress items = %d/%d, want 1/2", done, total)
	}
}

func TestManager_StructureErrorYieldsEmptyList(t *testing.T) {
	api := newTestServers(t)
	manager, _ := newTestManager(t, api.URL, nil)

	manifest := writeManifest(t, `{"Name": "no archives key"}`)
	if err := manager.LoadManifest(manifest, ""); err != nil {
		t.Fatalf("structure error should not abort: %v", err)
	}
	if len(manager.Requests()) != 0 {
		t.Errorf("got %d candidates, want 0", len(manager.Requests()))
	}
}

func TestManager_UnreadableManifest(t *testing.T) {
	api := newTestServers(t)
	manager, _ := newTestManager(t, api.URL, nil)

	err := manager.LoadManifest(filepath.Join(t.TempDir(), "nope.json"), "")
	if !errors.Is(err, model.ErrParse) {
		t.Errorf("error %v should match model.ErrParse", err)
	}
}

// Manifest names are untrusted; a traversal attempt must land inside
// the download directory.
func TestManager_SanitizesManifestFilename(t *testing.T) {
	api := newTestServers(t)
	manager, downloadDir := newTestManager(t, api.URL, nil)

	result := manager.DownloadOne(context.Background(), model.DownloadRequest{
		GameDomain: "SkyrimSE",
		ModID:      100,
		FileID:     1,
		Filename:   "../../evil.zip",
	}, nil)
	if !result.OK() {
		t.Fatalf("DownloadOne failed: %v", result.Err)
	}

	if _, err := os.Stat(filepath.Join(downloadDir, "evil.zip")); err != nil {
		t.Errorf("sanitized file missing from download dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(downloadDir, "..", "..", "evil.zip")); !os.IsNotExist(err) {
		t.Error("file escaped the download directory")
	}
}
