package utils

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// maxImageDownloadSize caps image downloads so a mislinked cell cannot make
// the run slurp an arbitrarily large file.
const maxImageDownloadSize = 20 * 1024 * 1024

// NormalizeImageURL rewrites share-link forms into direct-download forms.
// Google Drive share links serve an HTML viewer page, not the file, so they
// have to be rewritten before fetching.
func NormalizeImageURL(rawURL string) string {
	if !strings.Contains(rawURL, "drive.google.com") {
		return rawURL
	}

	if idx := strings.Index(rawURL, "/d/"); idx >= 0 {
		id := rawURL[idx+len("/d/"):]
		if end := strings.IndexAny(id, "/?#"); end >= 0 {
			id = id[:end]
		}
		return "https://drive.google.com/uc?export=download&id=" + id
	}
	if idx := strings.Index(rawURL, "id="); idx >= 0 {
		id := rawURL[idx+len("id="):]
		if end := strings.IndexAny(id, "&#"); end >= 0 {
			id = id[:end]
		}
		return "https://drive.google.com/uc?export=download&id=" + id
	}
	return rawURL
}

// DownloadImageFromURL fetches the image bytes behind rawURL, rewriting
// share links first. It returns the data and a filename derived from the
// URL path.
func DownloadImageFromURL(rawURL string) ([]byte, string, error) {
	downloadURL := NormalizeImageURL(strings.TrimSpace(rawURL))

	resp, err := http.Get(downloadURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownloadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageDownloadSize {
		return nil, "", fmt.Errorf("image exceeds download limit of %d bytes", maxImageDownloadSize)
	}

	return data, fileNameFromURL(downloadURL), nil
}

func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "image.png"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return "image.png"
	}
	return name
}
