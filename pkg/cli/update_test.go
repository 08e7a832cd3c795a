package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
)

// The v0.2.1 assets list another platform first so only a platform-aware
// pick lands on http://x/021.
var releasesJSON = fmt.Sprintf(`[
  {"tag_name": "v0.3.0-rc1", "prerelease": true, "assets": [{"name": "histeq_%[1]s_%[2]s", "browser_download_url": "http://x/rc"}]},
  {"tag_name": "v0.2.1", "assets": [{"name": "checksums.txt", "browser_download_url": "http://x/sum"}, {"name": "histeq_plan9_mips.tar.gz", "browser_download_url": "http://x/other"}, {"name": "histeq_%[1]s_%[2]s.tar.gz", "browser_download_url": "http://x/021"}]},
  {"tag_name": "nightly", "name": "Release 0.1.5"},
  {"tag_name": "v0.9.0", "draft": true},
  {"tag_name": "junk"}
]`, runtime.GOOS, runtime.GOARCH)

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(releasesJSON))
	}))
	defer srv.Close()

	rel, err := latestRelease(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("latestRelease: %v", err)
	}
	if rel == nil {
		t.Fatalf("expected a release")
	}
	if rel.Version.String() != "0.2.1" {
		t.Fatalf("expected 0.2.1, got %s", rel.Version)
	}
	if rel.AssetURL != "http://x/021" {
		t.Fatalf("expected platform asset, got %q", rel.AssetURL)
	}
}

func TestLatestReleaseEmptyAndErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer empty.Close()
	rel, err := latestRelease(empty.Client(), empty.URL)
	if err != nil || rel != nil {
		t.Fatalf("expected no release and no error, got %v, %v", rel, err)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer failing.Close()
	if _, err := latestRelease(failing.Client(), failing.URL); err == nil {
		t.Fatalf("expected error for status 403")
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer garbage.Close()
	if _, err := latestRelease(garbage.Client(), garbage.URL); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestPickAsset(t *testing.T) {
	r := githubRelease{Assets: []githubAsset{
		{Name: "checksums.txt", BrowserDownloadURL: "sum"},
		{Name: "histeq_Darwin_arm64.tar.gz", BrowserDownloadURL: "darwin-arm64"},
		{Name: "histeq_linux_amd64.tar.gz", BrowserDownloadURL: "linux-amd64"},
		{Name: "histeq_linux_arm64.tar.gz", BrowserDownloadURL: "linux-arm64"},
	}}
	tests := []struct {
		goos, goarch, want string
	}{
		{"linux", "arm64", "linux-arm64"},
		{"linux", "amd64", "linux-amd64"},
		{"darwin", "arm64", "darwin-arm64"},
		{"linux", "386", "linux-amd64"},
		{"linux", "arm", "linux-amd64"},
		{"windows", "amd64", ""},
	}
	for _, tt := range tests {
		if got := pickAsset(r, tt.goos, tt.goarch); got != tt.want {
			t.Errorf("pickAsset(%s/%s) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
	if got := pickAsset(githubRelease{}, "linux", "amd64"); got != "" {
		t.Errorf("no assets: got %q", got)
	}
}
