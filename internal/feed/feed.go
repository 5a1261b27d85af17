package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"podarc/internal/domain/config"
	"strings"
)

// Fetch retrieves the raw spreadsheet export: an HTTP GET of the sheet URL,
// or a local file read. It returns the document bytes and their sha256 hex,
// which the caller uses to skip rebuilds when nothing changed.
func Fetch(ctx context.Context, src config.SourceConfig) ([]byte, string, error) {
	if f := strings.TrimSpace(src.File); f != "" {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, "", fmt.Errorf("feed: read %s: %w", f, err)
		}
		return data, HashBytes(data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.SheetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("feed: build request: %w", err)
	}
	client := &http.Client{Timeout: src.Timeout.Std()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("feed: fetch %s: %w", src.SheetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("feed: fetch %s: unexpected status %s", src.SheetURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("feed: read body: %w", err)
	}
	return data, HashBytes(data), nil
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
