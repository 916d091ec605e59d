package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckLatestVersion(t *testing.T) {
	srv := newReleaseServer(t, "v2.0.0")
	u := New("1.0.0", WithAPIBase(srv.URL))

	release, err := u.CheckLatestVersion(context.Background())
	if err != nil {
		t.Fatalf("CheckLatestVersion error: %v", err)
	}
	if release.Version != "v2.0.0" {
		t.Errorf("Version = %q, want %q", release.Version, "v2.0.0")
	}
	if release.HTMLURL != "https://example.test/v2.0.0" {
		t.Errorf("HTMLURL = %q", release.HTMLURL)
	}
}

func TestCheckLatestVersion_BadBodies(t *testing.T) {
	for _, body := range []string{`not json`, `{"name":"no tag"}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			if _, err := New("1.0.0", WithAPIBase(srv.URL)).CheckLatestVersion(context.Background()); err == nil {
				t.Errorf("expected error for body %q", body)
			}
		})
	}
}
