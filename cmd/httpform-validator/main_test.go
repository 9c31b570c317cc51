package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestServe_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, slog.New(slog.NewTextHandler(&logs, nil)))
	}()

	req, err := http.NewRequest(http.MethodGet, "http://"+listener.Addr().String()+"/api/items?view=list", nil)
	require.NoError(t, err)
	req.Header.Set("Range", "pages=1@10")

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	client.CloseIdleConnections()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING: Prefer header")

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "expect: FAIL")
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out, "localhost:9999")
	assert.Contains(t, out.String(), "http://localhost:9999")
	assert.Contains(t, out.String(), "Range: pages=<N>@<M>")
}
