package ingest

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	jmdictRepo       = "scriptin/jmdict-simplified"
	jmdictAssetMatch = "jmdict-eng-common"
)

// Fetcher downloads the jmdict-simplified release used to seed a Japanese dictionary.
type Fetcher struct {
	Client  *http.Client
	APIBase string
	Logger  *log.Logger
}

// NewFetcher returns a fetcher against the public GitHub API.
func NewFetcher(logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		Client:  &http.Client{Timeout: 2 * time.Minute},
		APIBase: "https://api.github.com",
		Logger:  logger,
	}
}

// EnsureJMdict leaves an existing file at path alone. Otherwise it finds the
// latest release asset, downloads it and extracts the JSON file to path.
func (f *Fetcher) EnsureJMdict(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f.Logger.Info("dictionary not found, downloading", "path", path)
	url, err := f.latestAssetURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to find latest dictionary release: %w", err)
	}
	f.Logger.Info("downloading", "url", url)
	return f.downloadAndExtract(ctx, url, path)
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// GitHub rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "dictlookup-cli")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp, nil
}

func (f *Fetcher) latestAssetURL(ctx context.Context) (string, error) {
	resp, err := f.get(ctx, strings.TrimRight(f.APIBase, "/")+"/repos/"+jmdictRepo+"/releases/latest")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	for _, a := range release.Assets {
		if strings.Contains(a.Name, jmdictAssetMatch) && (strings.HasSuffix(a.Name, ".json.tgz") || strings.HasSuffix(a.Name, ".json.gz")) {
			return a.BrowserDownloadURL, nil
		}
	}
	return "", fmt.Errorf("no suitable dictionary asset found in latest release")
}

// downloadAndExtract writes the first .json member of a .tgz to dest. The
// file only appears at dest once it is complete.
func (f *Fetcher) downloadAndExtract(ctx context.Context, url, dest string) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("no json file found in downloaded archive")
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !strings.HasSuffix(hdr.Name, ".json") {
			continue
		}
		tmp := dest + ".part"
		out, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write to file: %w", err)
		}
		if err := out.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, dest)
	}
}
