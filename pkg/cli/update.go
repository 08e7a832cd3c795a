package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=x.y.z".
var Version = "0.1.0"

const updateRepo = "Fepozopo/histeq"

var releasesURL = "https://api.github.com/repos/" + updateRepo + "/releases"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// latestRelease queries the GitHub Releases API and returns the highest
// published, non-prerelease semver release, or nil when there is none.
func latestRelease(client *http.Client, url string) (*selfupdate.Release, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var candidates []*selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
		}
		v, perr := semver.Parse(strings.TrimPrefix(match, "v"))
		if perr != nil {
			continue
		}
		candidates = append(candidates, &selfupdate.Release{Version: v, AssetURL: pickAsset(r, runtime.GOOS, runtime.GOARCH)})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version.GT(candidates[j].Version)
	})
	return candidates[0], nil
}

// pickAsset returns the asset built for goos/goarch, else the first asset
// for goos alone, else "" so a binary for another platform is never
// installed. Names are matched by token, so "arm" does not match "arm64".
func pickAsset(r githubRelease, goos, goarch string) string {
	goos, goarch = strings.ToLower(goos), strings.ToLower(goarch)
	osOnly := ""
	for _, a := range r.Assets {
		tokens := strings.FieldsFunc(strings.ToLower(a.Name), func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsDigit(c)
		})
		if !slices.Contains(tokens, goos) {
			continue
		}
		if slices.Contains(tokens, goarch) {
			return a.BrowserDownloadURL
		}
		if osOnly == "" {
			osOnly = a.BrowserDownloadURL
		}
	}
	return osOnly
}

// CheckForUpdates compares Version with the latest release and, after
// confirmation, replaces the running binary.
func CheckForUpdates() error {
	fmt.Printf("Current version: %s\n", Version)
	latest, err := latestRelease(&http.Client{Timeout: 10 * time.Second}, releasesURL)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest == nil {
		fmt.Printf("No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Printf("Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		fmt.Printf("warning: could not parse current version %q: %v\n", Version, perr)
	} else if !latest.Version.GT(current) {
		fmt.Printf("You are already running the latest version: %s.\n", current)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Printf("A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}

	answer, err := PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if answer = strings.ToLower(answer); answer != "y" && answer != "yes" {
		fmt.Println("Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Println("Updating...")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Printf("Updated to version %s. Restart histeq to use it.\n", latest.Version)
	return nil
}
