// Package expect checks incoming requests against header and query
// expectations. Its Handler answers 206 when a request passes and 400 when it
// does not, which makes it a stand-in server for exercising forms that move
// pagination state into headers.
package expect
