package transport

import (
	"context"
	"net/http/httputil"

	"github.com/pkg/errors"

	"github.com/steveAllen0112/http-aware-forms/pkg/model"
)

// Dump renders the request as it would appear on the wire, body included,
// without contacting the server.
func Dump(ctx context.Context, req model.Request) ([]byte, error) {
	httpReq, err := NewRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := httputil.DumpRequestOut(httpReq, true)
	if err != nil {
		return nil, errors.Wrap(err, "transport: dump request")
	}
	return out, nil
}
