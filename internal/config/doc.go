// Package config manages user-level settings stored at ~/.pastaga/config.yaml.
// Values come from flags, APOTEK_* environment variables, the config file and
// built-in defaults, in that order of precedence.
package config
