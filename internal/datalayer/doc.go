// Package datalayer persists recooked containers: to the local output
// directory, and optionally to an S3-compatible archive.
package datalayer
