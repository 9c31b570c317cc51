// Package prompt fills a live form interactively before submission. The
// terminal implementation is backed by survey; tests drive Fill through a
// scripted Driver.
package prompt
