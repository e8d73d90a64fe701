// Package types holds the JSON shapes exchanged over the HTTP API.
package types
