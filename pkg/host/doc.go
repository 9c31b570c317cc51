// Package host keeps the live state of a form description, captures field
// snapshots and performs the native-style constraint check the submission
// controller delegates to.
package host
