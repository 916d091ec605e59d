// Package cli defines the Cobra command tree for the apotek CLI. Each file in
// this package registers one top-level command with the root command. Command
// implementations delegate to internal packages for the work and only handle
// flag parsing, I/O formatting and wiring.
package cli
