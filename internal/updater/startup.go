package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/branding"
)

var bannerColor = color.New(color.FgYellow, color.Bold)

// CheckAndPrintBanner prints an update banner from the cache in dir when a
// newer version is known. When the cache is stale a refresh is started in
// the background; the returned channel is closed when it finishes, or
// immediately when no refresh was needed.
func (u *Updater) CheckAndPrintBanner(ctx context.Context, w io.Writer, dir string) <-chan struct{} {
	done := make(chan struct{})

	cache, err := LoadCache(u.fs, dir)
	if err != nil {
		u.log.Debug("ignoring unreadable version cache", zap.Error(err))
	}
	if cache != nil && cache.UpdateAvailable && cache.CurrentVersion == u.currentVersion {
		PrintUpdateBanner(w, cache.CurrentVersion, cache.LatestVersion, cache.ReleaseURL)
	}

	if !cache.IsStale(u.currentVersion, DefaultCacheMaxAge) {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := u.Refresh(ctx, dir); err != nil {
			u.log.Debug("version check failed", zap.Error(err))
		}
	}()
	return done
}

// PrintUpdateBanner prints the update notification to w.
func PrintUpdateBanner(w io.Writer, current, latest, url string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerColor.Sprintf("Update available: %s -> %s", current, latest))
	if url == "" {
		url = fmt.Sprintf("https://github.com/%s/releases/latest", branding.GitHubRepo())
	}
	fmt.Fprintf(w, "    %s\n\n", url)
}

// Refresh fetches the latest release and rewrites the cache in dir.
func (u *Updater) Refresh(ctx context.Context, dir string) error {
	release, err := u.CheckLatestVersion(ctx)
	if err != nil {
		return err
	}

	available, err := IsUpdateAvailable(u.currentVersion, release.Version)
	if err != nil {
		return err
	}

	return SaveCache(u.fs, dir, &VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  u.currentVersion,
		ReleaseURL:      release.HTMLURL,
		CheckedAt:       time.Now(),
		UpdateAvailable: available,
	})
}
