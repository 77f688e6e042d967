package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/modhoard/nexus-downloader/internal/config"
	"github.com/modhoard/nexus-downloader/internal/http"
	ioutils "github.com/modhoard/nexus-downloader/internal/io"
	"github.com/modhoard/nexus-downloader/internal/model"
	"github.com/modhoard/nexus-downloader/internal/nexus"
	"github.com/modhoard/nexus-downloader/internal/wabbajack"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result records the outcome of one pipeline item.
type Result struct {
	Request model.DownloadRequest
	Stage   model.Stage
	Err     error
}

// OK reports whether the item completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Manager sequences the pipeline for each selected item: manifest
// extraction, link resolution, then the streamed download. Items run
// strictly one at a time; a failure is reported and the batch moves on.
type Manager struct {
	settings   *config.Settings
	resolver   *nexus.Client
	httpClient *http.Client
	logger     *zap.Logger
	onProgress func(ProgressEvent)

	requests []model.DownloadRequest

	itemsDone      int32
	itemsTotal     int32
	currentWritten int64
	currentTotal   int64
}

// NewManager creates a Manager wired to the Nexus API with the given
// key. onProgress receives human-readable pipeline events; pass nil to
// disable.
func NewManager(settings *config.Settings, apiKey string, logger *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		resolver:   nexus.NewClient(settings.APIBaseURL, apiKey, settings.HTTPTimeout(), logger),
		httpClient: http.NewClient(settings.HTTPTimeout()),
		logger:     logger,
		onProgress: onProgress,
	}
}

// LoadManifest extracts download candidates from a Wabbajack manifest.
// A manifest without the expected Archives shape logs a warning and
// yields an empty candidate list; a missing or malformed file is
// returned as an error.
func (m *Manager) LoadManifest(path, filter string) error {
	requests, err := wabbajack.Extract(path, filter)
	if err != nil {
		if errors.Is(err, model.ErrStructure) {
			m.logger.Warn("manifest has unexpected shape", zap.Error(err))
			m.requests = nil
			return nil
		}
		return err
	}

	m.requests = requests
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d downloadable Nexus files", len(requests)),
		Level:   LevelVerbose,
	})
	return nil
}

// Requests returns the currently loaded download candidates, in
// manifest order.
func (m *Manager) Requests() []model.DownloadRequest {
	return m.requests
}

// SetRequests replaces the candidate list, for manual mode.
func (m *Manager) SetRequests(requests []model.DownloadRequest) {
	m.requests = requests
}

// GetProgress returns a snapshot of batch progress: completed and total
// items, plus bytes written and expected for the item in flight.
func (m *Manager) GetProgress() (itemsDone, itemsTotal int32, written, total int64) {
	return atomic.LoadInt32(&m.itemsDone), atomic.LoadInt32(&m.itemsTotal),
		atomic.LoadInt64(&m.currentWritten), atomic.LoadInt64(&m.currentTotal)
}

// DownloadOne resolves and downloads a single request. Failures are
// reported through progress events and returned in the Result, never
// propagated; the caller decides whether the run continues.
func (m *Manager) DownloadOne(ctx context.Context, req model.DownloadRequest, onBytes func(written, total int64)) Result {
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Requesting download link for %s...", req),
		Level:   LevelInfo,
	})

	uri, err := m.resolveWithRetry(ctx, req)
	if err != nil {
		result := Result{Request: req, Stage: model.StageResolve, Err: err}
		m.reportFailure(result)
		return result
	}

	if err := ioutils.EnsureDir(m.settings.DownloadDir); err != nil {
		result := Result{
			Request: req,
			Stage:   model.StageDownload,
			Err:     fmt.Errorf("%w: creating %s: %v", model.ErrIO, m.settings.DownloadDir, err),
		}
		m.reportFailure(result)
		return result
	}

	dest := filepath.Join(m.settings.DownloadDir, ioutils.SafeFileName(req.Filename))
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloading %s", dest),
		Level:   LevelVerbose,
	})

	atomic.StoreInt64(&m.currentWritten, 0)
	atomic.StoreInt64(&m.currentTotal, 0)
	track := func(written, total int64) {
		atomic.StoreInt64(&m.currentWritten, written)
		atomic.StoreInt64(&m.currentTotal, total)
		if onBytes != nil {
			onBytes(written, total)
		}
	}

	if err := m.downloadWithRetry(ctx, uri, dest, track); err != nil {
		result := Result{Request: req, Stage: model.StageDownload, Err: err}
		m.reportFailure(result)
		return result
	}

	atomic.AddInt32(&m.itemsDone, 1)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Successfully downloaded '%s' to '%s'", req.Filename, dest),
		Level:   LevelSuccess,
	})
	return Result{Request: req}
}

// DownloadAll runs every loaded request in manifest order, continuing
// past individual failures. One item's failure never aborts the rest of
// the queue.
func (m *Manager) DownloadAll(ctx context.Context, onBytes func(written, total int64)) []Result {
	atomic.StoreInt32(&m.itemsDone, 0)
	atomic.StoreInt32(&m.itemsTotal, int32(len(m.requests)))

	results := make([]Result, 0, len(m.requests))
	for _, req := range m.requests {
		results = append(results, m.DownloadOne(ctx, req, onBytes))
	}
	return results
}

func (m *Manager) resolveWithRetry(ctx context.Context, req model.DownloadRequest) (string, error) {
	var uri string
	var err error

	for try := 0; try < m.attempts(); try++ {
		uri, err = m.resolver.ResolveLink(ctx, req)
		if err == nil || !retryable(err) {
			break
		}
		m.retryNotice(ctx, try, req.Filename)
	}

	return uri, err
}

func (m *Manager) downloadWithRetry(ctx context.Context, uri, dest string, onBytes func(written, total int64)) error {
	var err error

	for try := 0; try < m.attempts(); try++ {
		err = m.httpClient.DownloadFile(ctx, uri, dest, onBytes)
		if err == nil || !retryable(err) {
			break
		}
		m.retryNotice(ctx, try, dest)
	}

	return err
}

func (m *Manager) attempts() int {
	if m.settings.MaxRetries < 1 {
		return 1
	}
	return m.settings.MaxRetries
}

// retryable limits retries to transport-class failures; API rejections
// and filesystem errors fail immediately.
func retryable(err error) bool {
	return errors.Is(err, model.ErrNetwork)
}

func (m *Manager) retryNotice(ctx context.Context, try int, what string) {
	if try+1 >= m.attempts() {
		return
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Retry %d/%d for %s", try+1, m.attempts()-1, what),
		Level:   LevelWarning,
	})
	m.waitForRetry(ctx, try)
}

func (m *Manager) waitForRetry(ctx context.Context, try int) {
	cooldown := m.settings.RetryCooldown * math.Pow(m.settings.RetryExponent, float64(try))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) reportFailure(result Result) {
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Failed %s at %s stage: %v", result.Request.Filename, result.Stage, result.Err),
		Level:   LevelError,
	})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
