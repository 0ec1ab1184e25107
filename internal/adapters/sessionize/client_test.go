package sessionize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allResponse = `{
  "sessions": [
    {"id": "101", "title": "Keynote", "description": "Opening talk", "startsAt": "2026-11-01T09:00:00", "endsAt": "2026-11-01T10:00:00", "roomId": 7, "isServiceSession": false},
    {"id": "102", "title": "Lunch", "startsAt": "2026-11-01T12:00:00Z", "endsAt": "2026-11-01T13:00:00Z", "roomId": 7, "isServiceSession": true},
    {"id": "103", "title": "Unscheduled", "startsAt": null, "endsAt": null, "roomId": 0}
  ],
  "rooms": [{"id": 7, "name": "Main Hall", "sort": 1}],
  "speakers": [],
  "categories": []
}`

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(allResponse))
	}))
	defer srv.Close()

	jakarta := time.FixedZone("WIB", 7*60*60)
	f := NewHTTPFetcher(srv.Client(), WithBaseURL(srv.URL+"/"), WithLocation(jakarta))
	got, err := f.Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "/abc123/view/All", gotPath)
	require.Len(t, got.Rooms, 1)
	assert.Equal(t, "Main Hall", got.Rooms[0].Name)
	require.Len(t, got.Sessions, 3)

	keynote := got.Sessions[0]
	assert.Equal(t, "Keynote", keynote.Title)
	assert.Equal(t, 7, keynote.RoomID)
	assert.True(t, keynote.StartsAt.Equal(time.Date(2026, 11, 1, 2, 0, 0, 0, time.UTC)))
	assert.True(t, got.Sessions[1].IsServiceSession)
	assert.True(t, got.Sessions[1].StartsAt.Equal(time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, got.Sessions[2].StartsAt.IsZero())
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: "status: 404"},
		{name: "bad json", status: http.StatusOK, body: `{"sessions": [`, wantErr: "decode"},
		{name: "bad time", status: http.StatusOK, body: `{"sessions": [{"id": "1", "startsAt": "yesterday"}]}`, wantErr: "startsAt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPFetcher(srv.Client(), WithBaseURL(srv.URL)).Fetch(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
