// Package resolver turns a directory tree of commands or templates into an
// ordered list of manifest entries. Directories carrying a manifest.json are
// authoritative; bare directories become synthetic entries named after their
// slash-joined path. Discovery is best-effort: unreadable directories and
// broken manifests are logged and skipped.
package resolver
