// Package builtin holds the commands compiled into the binary. They are
// registered ahead of the user's command folder and take precedence over a
// folder of the same name.
package builtin
