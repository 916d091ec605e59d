// Package prompt drives the questions a command declares. The Coordinator
// skips questions whose answer is already in the state, re-asks when a
// validator rejects a pre-filled value, and stores every answer back into the
// state under the question's name. Terminal is the line-based Asker used by the CLI.
package prompt
