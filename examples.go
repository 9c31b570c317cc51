package httpforms

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.html forms/*.yaml
var embeddedForms embed.FS

// ExampleFormsFS exposes the bundled example form descriptions (committed
// under forms/) so callers and the CLI can submit them without a file on disk.
// The pagination form passes the checks of the validator served by
// cmd/httpform-validator.
//
// Typical use:
//
//	orch := httpforms.NewOrchestrator(
//	  orchestrator.WithFormsFS(httpforms.ExampleFormsFS()),
//	)
func ExampleFormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}
