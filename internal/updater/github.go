package updater

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/apotek-labs/apotek/internal/branding"
	"github.com/apotek-labs/apotek/internal/rest"
)

// CheckLatestVersion fetches the latest release from GitHub.
func (u *Updater) CheckLatestVersion(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(u.apiBase, "/"), branding.GitHubRepo())

	u.client.Header.Set("Accept", "application/vnd.github+json")
	u.client.Header.Set("User-Agent", branding.CLIName()+"-updater")
	// Support optional GitHub token for higher rate limits.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		u.client.Header.Set("Authorization", "token "+token)
	}

	resp, err := u.client.Get(ctx, url)
	if err != nil {
		var statusErr *rest.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.Status {
			case http.StatusNotFound:
				return nil, fmt.Errorf("release not found")
			case http.StatusForbidden:
				return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
			}
		}
		return nil, fmt.Errorf("fetching release: %w", err)
	}

	if !resp.Valid() {
		return nil, fmt.Errorf("parsing release JSON: invalid body")
	}
	release := Release{
		Version:   resp.Get("tag_name").String(),
		Published: resp.Get("published_at").Time(),
		HTMLURL:   resp.Get("html_url").String(),
	}
	if release.Version == "" {
		return nil, fmt.Errorf("release has no tag")
	}
	return &release, nil
}
