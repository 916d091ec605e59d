// Package scaffold creates new commands and templates from embedded skeletons.
// It powers "apotek create": a command gets a manifest.json and a context.go
// ready to be interpreted, a template gets a manifest.json and a sample file.
package scaffold
