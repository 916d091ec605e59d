package updater

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/releases/latest") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.test/` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh_WritesCache(t *testing.T) {
	fsys := afero.NewMemMapFs()
	srv := newReleaseServer(t, "v1.4.0")
	u := New("1.3.0", WithFs(fsys), WithAPIBase(srv.URL))

	if err := u.Refresh(context.Background(), "/home"); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	cache, err := LoadCache(fsys, "/home")
	if err != nil || cache == nil {
		t.Fatalf("LoadCache = %v, %v", cache, err)
	}
	if !cache.UpdateAvailable {
		t.Error("UpdateAvailable should be true")
	}
	if cache.LatestVersion != "v1.4.0" {
		t.Errorf("LatestVersion = %q, want %q", cache.LatestVersion, "v1.4.0")
	}
}

func TestCheckAndPrintBanner_FromCache(t *testing.T) {
	fsys := afero.NewMemMapFs()
	SaveCache(fsys, "/home", &VersionCache{
		LatestVersion:   "1.4.0",
		CurrentVersion:  "1.3.0",
		CheckedAt:       time.Now(),
		UpdateAvailable: true,
	})

	var out bytes.Buffer
	u := New("1.3.0", WithFs(fsys), WithAPIBase("http://127.0.0.1:0"))
	<-u.CheckAndPrintBanner(context.Background(), &out, "/home")

	if !strings.Contains(out.String(), "1.3.0 -> 1.4.0") {
		t.Errorf("banner missing, got %q", out.String())
	}
}

func TestCheckAndPrintBanner_RefreshesStaleCache(t *testing.T) {
	fsys := afero.NewMemMapFs()
	srv := newReleaseServer(t, "v2.0.0")

	var out bytes.Buffer
	u := New("1.0.0", WithFs(fsys), WithAPIBase(srv.URL))
	<-u.CheckAndPrintBanner(context.Background(), &out, "/home")

	if out.Len() != 0 {
		t.Errorf("no banner expected before the first check, got %q", out.String())
	}
	cache, _ := LoadCache(fsys, "/home")
	if cache == nil || !cache.UpdateAvailable {
		t.Fatalf("cache not refreshed: %+v", cache)
	}
}
