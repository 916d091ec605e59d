// Package script loads command behavior from Go source interpreted at run time.
//
// A command folder holds a context.go in package main:
//
//	package main
//
//	import "apotek/host"
//
//	func Prompts(state map[string]interface{}) []map[string]interface{} {
//		return []map[string]interface{}{{"name": "project", "message": "Project name"}}
//	}
//
//	func Validate(name string, value interface{}) string { return "" }
//
//	func Exec(state map[string]interface{}) (string, error) {
//		out, err := host.Shell("git init " + state["project"].(string))
//		...
//		return "", nil
//	}
//
// Exec is required; Prompts and Validate are optional. The host package gives
// scripts the shell, templating and HTTP helpers of the running turn.
package script
