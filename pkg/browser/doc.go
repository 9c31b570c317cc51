// Package browser provides a headless navigator: named browsing contexts with
// session history that present submission responses.
package browser
