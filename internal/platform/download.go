// Package platform implements the native capabilities the install engine
// depends on: installer downloads, process execution, shortcut management,
// and filesystem probes. Everything here satisfies the interfaces declared
// in internal/core so the engine stays testable without touching the OS.
package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/enderfall/hub/internal/core"
)

const downloadTimeout = 30 * time.Minute

// HTTPDownloader fetches installers over HTTP, streaming byte-level
// progress into the engine's event channel.
type HTTPDownloader struct {
	client *retryablehttp.Client
	// Events receives download progress; nil disables reporting.
	Events chan<- core.ProgressEvent
}

// NewHTTPDownloader creates a downloader. events may be nil.
func NewHTTPDownloader(events chan<- core.ProgressEvent) *HTTPDownloader {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = downloadTimeout
	client.Logger = nil
	return &HTTPDownloader{client: client, Events: events}
}

// DownloadInstaller streams url into destinationDir and returns the local
// path. The file is written next to its final name via a temp file so a
// failed download never leaves a half-written installer behind.
func (d *HTTPDownloader) DownloadInstaller(ctx context.Context, appID, url, destinationDir string) (string, error) {
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return "", core.NewDownloadError("creating download directory", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", core.NewDownloadError("building download request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", core.NewDownloadError("downloading installer", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", core.NewDownloadError("downloading installer",
			fmt.Errorf("server returned HTTP %d", resp.StatusCode))
	}

	destPath := filepath.Join(destinationDir, installerFileName(url))
	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", core.NewDownloadError("creating installer file", err)
	}

	_, err = io.Copy(out, d.progressReader(resp.Body, appID, resp.ContentLength))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", core.NewDownloadError("writing installer", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", core.NewDownloadError("saving installer", err)
	}

	d.emit(appID, 1)
	return destPath, nil
}

// CopyInstaller copies a local installer into destinationDir, reporting
// completion as a single progress event.
func (d *HTTPDownloader) CopyInstaller(_ context.Context, appID, sourcePath, destinationDir string) (string, error) {
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return "", core.NewDownloadError("creating download directory", err)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", core.NewDownloadError("opening local installer", err)
	}
	defer src.Close()

	destPath := filepath.Join(destinationDir, filepath.Base(sourcePath))
	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", core.NewDownloadError("creating installer file", err)
	}

	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", core.NewDownloadError("copying installer", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", core.NewDownloadError("saving installer", err)
	}

	d.emit(appID, 1)
	return destPath, nil
}

// progressReader wraps body with per-chunk progress emission. With an
// unknown content length no intermediate events are emitted; the final 1.0
// still fires from the caller.
func (d *HTTPDownloader) progressReader(body io.Reader, appID string, total int64) io.Reader {
	if d.Events == nil || total <= 0 {
		return body
	}
	return &countingReader{r: body, total: total, emit: func(fraction float64) {
		d.emit(appID, fraction)
	}}
}

func (d *HTTPDownloader) emit(appID string, fraction float64) {
	if d.Events == nil {
		return
	}
	// Never block a download on a slow consumer.
	select {
	case d.Events <- core.ProgressEvent{AppID: appID, Fraction: fraction}:
	default:
	}
}

type countingReader struct {
	r     io.Reader
	total int64
	read  int64
	emit  func(float64)
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.read += int64(n)
		cr.emit(float64(cr.read) / float64(cr.total))
	}
	return n, err
}

// installerFileName derives a local filename from the download URL,
// falling back to a fixed name when the URL has no usable path segment.
func installerFileName(url string) string {
	name := filepath.Base(url)
	if name == "" || name == "." || name == "/" {
		return "installer.bin"
	}
	return name
}
