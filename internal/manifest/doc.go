// Package manifest decodes and validates manifest.json descriptors. A manifest
// is either a single entry object or an array of entries; both shapes are
// decoded into a Document and checked against the embedded JSON schema.
package manifest
