package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fcf_analysis/pkg/core/pipeline"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingAnalyzer struct{}

func (panickingAnalyzer) Run(context.Context, string) (*pipeline.Result, error) {
	panic("workbook exploded")
}

func TestWebAPI_Endpoints(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	api := NewWebAPI(logger, Config{
		Addr:         ":0",
		DataRoot:     t.TempDir(),
		Dependencies: Dependencies{Analyzer: panickingAnalyzer{}},
	})
	testServer := httptest.NewServer(api.Handler())
	defer testServer.Close()

	resp, err := http.Get(testServer.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(testServer.URL + "/api/v1/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(testServer.URL+"/api/v1/fcf", "application/json", strings.NewReader(`{"folder":"AAPL"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "panics are recovered")

	out := logs.String()
	assert.Contains(t, out, `"path":"/api/v1/health"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"request_id"`)
}

func TestWebAPI_StartStopsOnCancel(t *testing.T) {
	api := NewWebAPI(zerolog.Nop(), Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies:    Dependencies{Analyzer: panickingAnalyzer{}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
