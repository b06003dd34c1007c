package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteJSONReportsEncodeFailureToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	// Channels are not JSON-encodable, forcing the error path.
	writeJSON(log, rec, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Contains(t, buf.String(), "encode response failed")
	assert.Contains(t, buf.String(), "/api/tasks")
}
