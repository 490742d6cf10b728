package gtfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

var errEmptyBody = errors.New("feed body is empty")

// Fetcher retrieves the raw stops export from a URL or a local file.
// It performs exactly one attempt; there is no retry.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{httpClient: client}
}

// Fetch returns the raw feed bytes from urlOrPath.
// Supports both HTTP URLs and local file paths. Any transfer failure, a
// non-2xx status or an empty body is reported as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, &FetchError{Source: "(none)", Err: errors.New("no feed location configured")}
	}

	var data []byte
	var err error
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		data, err = os.ReadFile(urlOrPath)
	} else {
		data, err = f.get(ctx, urlOrPath)
	}
	if err != nil {
		return nil, &FetchError{Source: urlOrPath, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FetchError{Source: urlOrPath, Err: errEmptyBody}
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
