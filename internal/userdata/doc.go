// Package userdata manages the working directory (~/.pastaga by default) that
// holds the user's commands, templates and config file.
package userdata
