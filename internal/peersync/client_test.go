package peersync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/peersync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// peerServer serves the sync endpoints of a gateway the way an installation does.
func peerServer(t *testing.T, gw *peersync.Gateway, token string) *httptest.Server {
	t.Helper()

	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer "+token
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+peersync.DirectoryPath, func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		dir, err := gw.Directory(r.Context())
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, dir)
	})
	mux.HandleFunc("GET "+peersync.MessagesPath, func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var after int64
		if raw := r.URL.Query().Get("since"); raw != "" {
			var err error
			after, err = strconv.ParseInt(raw, 10, 64)
			require.NoError(t, err)
		}
		page, err := gw.MessagesSince(r.Context(), after)
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, page)
	})
	mux.HandleFunc("POST "+peersync.MessagesPath, func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var m peersync.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		if _, err := gw.Accept(r.Context(), m); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_TwoInstallationsConverge(t *testing.T) {
	ctx := context.Background()

	remoteUsers := newMemUsers(&domain.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Ana", Role: domain.UserRoleVolunteer})
	remoteMessages := newMemMessages()
	remote := peersync.NewGateway(nil, remoteUsers, remoteMessages, 1)
	srv := peerServer(t, remote, "secret")

	_, err := remote.Send(ctx, peersync.SendParams{SenderID: "11111111-1111-1111-1111-111111111111", Content: "shelter open"})
	require.NoError(t, err)

	localUsers := newMemUsers()
	localMessages := newMemMessages()
	local := peersync.NewGateway(peersync.NewClient(srv.URL+"/", "secret", time.Second), localUsers, localMessages, 1)

	report, err := local.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersInserted)
	assert.Equal(t, 1, report.MessagesInserted)
	assert.Equal(t, domain.UserRoleVolunteer, localUsers.get("11111111-1111-1111-1111-111111111111").Role)

	sent, err := local.Send(ctx, peersync.SendParams{SenderID: "11111111-1111-1111-1111-111111111111", Content: "bringing water"})
	require.NoError(t, err)
	pushed, err := local.PushPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pushed)

	stored := remoteMessages.get(sent.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "bringing water", stored.Content)
	assert.Equal(t, domain.MessageOriginRemote, stored.Origin)

	// Pulling again brings back only the echo of our own message, which is already known.
	report, err = local.Pull(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.MessagesInserted)
	assert.Equal(t, 2, localMessages.count())
}

func TestClient_WrongTokenIsRejected(t *testing.T) {
	remote := peersync.NewGateway(nil, newMemUsers(), newMemMessages(), 1)
	srv := peerServer(t, remote, "secret")

	client := peersync.NewClient(srv.URL, "wrong", time.Second)
	_, err := client.FetchDirectory(context.Background())
	assert.ErrorIs(t, err, domain.ErrPeerRejected)
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := peersync.NewClient(srv.URL, "", time.Second)
	err := client.PushMessage(context.Background(), peersync.Message{MessageID: "x"})
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestClient_UnreachablePeerIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := peersync.NewClient(url, "", time.Second)
	_, err := client.FetchMessages(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
}

func TestClient_MalformedResponseIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	t.Cleanup(srv.Close)

	client := peersync.NewClient(srv.URL, "", time.Second)
	_, err := client.FetchDirectory(context.Background())
	assert.ErrorIs(t, err, domain.ErrPeerRejected)
}
