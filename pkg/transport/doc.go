// Package transport sends built request descriptors over net/http and renders
// them for dry runs.
package transport
