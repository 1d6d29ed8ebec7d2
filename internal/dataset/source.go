package dataset

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Downloader fetches a remote location.
type Downloader interface {
	Download(ctx context.Context, location string) (io.ReadCloser, error)
}

// Loader reads tables from local paths, http(s) URLs and ftp URLs.
type Loader struct {
	HTTP Downloader
	FTP  Downloader
}

// NewLoader returns a Loader with the default fetchers.
func NewLoader(httpOpts HTTPOptions, ftpOpts FTPOptions) *Loader {
	return &Loader{
		HTTP: NewHTTPFetcher(httpOpts),
		FTP:  NewFTPFetcher(ftpOpts),
	}
}

// Load reads the table at location. format overrides the extension-based
// guess when non-empty.
func (l *Loader) Load(ctx context.Context, location string, format Format) (*Table, error) {
	data, err := l.readAll(ctx, location)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatFromPath(location)
	}

	zap.L().Debug("dataset: loaded",
		zap.String("location", location),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)

	switch format {
	case FormatXLSX:
		t, err := ReadXLSX(data, XLSXOptions{})
		return t, eris.Wrapf(err, "dataset: read %s", location)
	default:
		t, err := ReadCSV(ctx, bytes.NewReader(data), CSVOptions{})
		return t, eris.Wrapf(err, "dataset: read %s", location)
	}
}

func (l *Loader) readAll(ctx context.Context, location string) ([]byte, error) {
	var dl Downloader
	switch scheme(location) {
	case "http", "https":
		dl = l.HTTP
	case "ftp":
		dl = l.FTP
	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: read file %s", location)
		}
		return data, nil
	}
	if dl == nil {
		return nil, eris.Errorf("dataset: no downloader for %s", location)
	}

	rc, err := dl.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read body %s", location)
	}
	return data, nil
}

func scheme(location string) string {
	if !strings.Contains(location, "://") {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}
