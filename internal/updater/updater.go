package updater

import (
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/rest"
)

const defaultAPIBase = "https://api.github.com"

// Release is the subset of a GitHub release the notifier needs.
type Release struct {
	Version   string // tag_name
	Published time.Time
	HTMLURL   string
}

// Updater checks for newer releases.
type Updater struct {
	currentVersion string
	client         *rest.Client
	apiBase        string
	fs             afero.Fs
	log            *zap.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithClient sets the HTTP client (useful for testing).
func WithClient(c *rest.Client) Option {
	return func(u *Updater) {
		u.client = c
	}
}

// WithAPIBase replaces the GitHub API base URL.
func WithAPIBase(base string) Option {
	return func(u *Updater) {
		u.apiBase = base
	}
}

// WithFs sets the filesystem holding the cache.
func WithFs(fsys afero.Fs) Option {
	return func(u *Updater) {
		u.fs = fsys
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(u *Updater) {
		u.log = log
	}
}

// New creates an Updater with the given current version and options.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		apiBase:        defaultAPIBase,
		fs:             afero.NewOsFs(),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = rest.New(rest.WithLogger(u.log))
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}
