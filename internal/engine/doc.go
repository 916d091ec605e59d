// Package engine executes commands and chains them into a wizard.
//
// A command is a folder under the commands root whose behavior is provided by
// a Module. Modules are produced by factories held in a Registry, either
// registered in code or obtained from a Loader that interprets the folder's
// source. One Execute call is a turn: the module's questions are settled
// against a private copy of the state, then Exec names the next command.
// Run loops over turns until a module returns no next command.
//
// There is no cycle detection: a module that keeps naming itself keeps the
// wizard running until the user interrupts it.
package engine
