// Package rest is the small JSON-over-HTTP client exposed to commands and used
// by the update check. Requests that fail in transport or with a 5xx status are
// retried with exponential backoff; response bodies can be queried by gjson path.
package rest
