// Package render expands Go text/templates into files and directory trees.
// It is the templating helper handed to commands: a template folder is copied
// to a target, with *.tmpl files rendered (and their suffix stripped) and path
// segments containing template actions expanded against the wizard state.
package render
