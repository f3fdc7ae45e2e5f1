package zoom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "account_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "acct-1", r.FormValue("account_id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(Config{
		AccountID:    "acct-1",
		ClientID:     "client-1",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		AuthURL:      server.URL + "/oauth/token",
	})
}

func TestListAccountRecordingsFollowsPagination(t *testing.T) {
	var tokens []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/me/recordings", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		tokens = append(tokens, r.URL.Query().Get("next_page_token"))

		page := listRecordingsResponse{
			Meetings: []Meeting{{UUID: "m-" + r.URL.Query().Get("next_page_token")}},
		}
		if len(tokens) == 1 {
			page.NextPageToken = "p2"
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	meetings, err := client.ListAccountRecordings(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	assert.Len(t, meetings, 2)
	assert.Equal(t, []string{"", "p2"}, tokens)
}

func TestDeleteRecordingTrashesFile(t *testing.T) {
	var gotMethod, gotPath, gotAction string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAction = r.URL.Query().Get("action")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteRecording(context.Background(), "meeting-1", "file-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/meetings/meeting-1/recordings/file-1", gotPath)
	assert.Equal(t, "trash", gotAction)
}

func TestDownloadPassesTokenAsQueryParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "run-token", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte("media-bytes"))
	}))
	defer server.Close()

	client := NewClient(Config{AccountID: "acct-1"})
	data, err := client.Download(context.Background(), server.URL+"/rec/file-1", "run-token")
	require.NoError(t, err)
	assert.Equal(t, []byte("media-bytes"), data)
}
