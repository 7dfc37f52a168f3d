package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/whichpackage/services/refresh"
	"github.com/stretchr/testify/require"
)

func TestRefreshIsAcceptedAndCompletes(t *testing.T) {
	assert := require.New(t)

	server := setupTestServer(t)

	status, body := makeTestHTTPRequest(t, server.router, http.MethodPost, "/refresh")
	assert.Equal(http.StatusAccepted, status)
	assert.Empty(body.Errors)

	accepted := RefreshResponse{}
	assert.NoError(json.Unmarshal(body.Data, &accepted))
	_, err := uuid.Parse(accepted.ID)
	assert.NoError(err, "refresh requests are identified by a UUID")

	assert.Eventually(func() bool {
		status, body := makeTestHTTPRequest(t, server.router, http.MethodGet, "/refresh/status?id="+accepted.ID)
		if status != http.StatusOK {
			return false
		}
		statusResponse := RefreshStatusResponse{}
		if err := json.Unmarshal(body.Data, &statusResponse); err != nil {
			return false
		}
		return statusResponse.Status == refresh.StatusComplete && statusResponse.LastRefreshedAt != ""
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRefreshStatusUnknownRequest(t *testing.T) {
	assert := require.New(t)

	server := setupTestServer(t)

	status, body := makeTestHTTPRequest(t, server.router, http.MethodGet, "/refresh/status?id="+uuid.New().String())
	assert.Equal(http.StatusNotFound, status)
	assert.NotEmpty(body.Errors)
}

var invalidRefreshStatusRequestTestCases = []struct {
	name   string
	target string
}{
	{
		name:   "No ID",
		target: "/refresh/status",
	},
	{
		name:   "Malformed ID",
		target: "/refresh/status?id=not-a-uuid",
	},
}

func TestRefreshStatusRequestValidation(t *testing.T) {
	server := setupTestServer(t)

	for _, testCase := range invalidRefreshStatusRequestTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			status, body := makeTestHTTPRequest(t, server.router, http.MethodGet, testCase.target)
			assert.Equal(http.StatusNotAcceptable, status)
			assert.NotEmpty(body.Errors)
		})
	}
}
