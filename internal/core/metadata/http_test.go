// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/references/internal/core/metadata"
)

func TestHandler_Status(t *testing.T) {
	state := newFakeState()
	state.state = metadata.State{RunID: "run-1", Status: metadata.StatusStopped, Total: 10, Processed: 4, Rows: 12, LastID: 4}
	router := metadata.NewHandler(state).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metadata", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"run_id":"run-1","status":"stopped","total":10,"processed":4,"rows":12,"last_id":4}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/metadata", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
