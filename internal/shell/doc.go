// Package shell runs shell snippets for commands. Scripts are parsed as bash
// and executed by the mvdan.cc/sh interpreter, so commands behave the same on
// every platform the CLI ships to; external programs are still run from PATH.
package shell
