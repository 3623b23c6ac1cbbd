package peersync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/peersync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_SendWithoutPeerStoresLocally(t *testing.T) {
	messages := newMemMessages()
	gw := peersync.NewGateway(nil, newMemUsers(), messages, 1)

	msg, err := gw.Send(context.Background(), peersync.SendParams{
		SenderID:  "user-1",
		ChannelID: "general",
		Content:   "water at the school",
	})
	require.NoError(t, err)

	stored := messages.get(msg.ID)
	require.NotNil(t, stored)
	assert.Equal(t, domain.MessageOriginLocal, stored.Origin)
	assert.True(t, stored.NeedsPush())
	assert.False(t, gw.HasPeer())

	_, err = gw.PushPending(context.Background())
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
}

func TestGateway_SendRejectsInvalidInput(t *testing.T) {
	gw := peersync.NewGateway(nil, newMemUsers(), newMemMessages(), 1)

	_, err := gw.Send(context.Background(), peersync.SendParams{SenderID: "user-1", Content: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)

	_, err = gw.Send(context.Background(), peersync.SendParams{Content: "hello"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGateway_SendFailsOnlyWhenLocalWriteFails(t *testing.T) {
	messages := newMemMessages()
	messages.failNext = errors.New("disk full")
	peer := &fakePeer{}
	gw := peersync.NewGateway(peer, newMemUsers(), messages, 1)

	_, err := gw.Send(context.Background(), peersync.SendParams{SenderID: "user-1", Content: "hello"})
	require.Error(t, err)
	assert.Zero(t, messages.count())
}

func TestGateway_PushFailureLeavesMessagePending(t *testing.T) {
	ctx := context.Background()
	messages := newMemMessages()
	peer := &fakePeer{pushErr: domain.ErrPeerUnavailable}
	gw := peersync.NewGateway(peer, newMemUsers(), messages, 4)

	msg, err := gw.Send(ctx, peersync.SendParams{SenderID: "user-1", Content: "need blankets"})
	require.NoError(t, err)

	pushed, err := gw.PushPending(ctx)
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
	assert.Zero(t, pushed)
	assert.True(t, messages.get(msg.ID).NeedsPush())

	peer.setPushErr(nil)
	pushed, err = gw.PushPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pushed)
	assert.False(t, messages.get(msg.ID).NeedsPush())
	assert.Equal(t, []string{msg.ID}, peer.pushedIDs())

	pushed, err = gw.PushPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pushed)
}

func TestGateway_PushPendingSkipsRejectedMessages(t *testing.T) {
	ctx := context.Background()
	messages := newMemMessages()
	peer := &fakePeer{pushErr: domain.ErrPeerRejected}
	gw := peersync.NewGateway(peer, newMemUsers(), messages, 4)

	for i := 0; i < 2; i++ {
		_, err := gw.Send(ctx, peersync.SendParams{SenderID: "user-1", Content: "hello"})
		require.NoError(t, err)
	}

	pushed, err := gw.PushPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pushed)
}

func TestGateway_RunPushesQueuedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	messages := newMemMessages()
	peer := &fakePeer{}
	gw := peersync.NewGateway(peer, newMemUsers(), messages, 4)

	done := make(chan error, 1)
	go func() { done <- gw.Run(ctx, time.Hour) }()

	msg, err := gw.Send(ctx, peersync.SendParams{SenderID: "user-1", Content: "bridge is out"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return !messages.get(msg.ID).NeedsPush()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, peer.pushedIDs(), msg.ID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("gateway did not stop")
	}
}

func TestGateway_RunSurvivesPeerOutage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	peer := &fakePeer{fetchErr: domain.ErrPeerUnavailable, pushErr: domain.ErrPeerUnavailable}
	gw := peersync.NewGateway(peer, newMemUsers(), newMemMessages(), 4)

	done := make(chan error, 1)
	go func() { done <- gw.Run(ctx, 5*time.Millisecond) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("gateway did not stop")
	}
}

func TestGateway_PullMergesDirectoryAndMessages(t *testing.T) {
	ctx := context.Background()
	lastSeen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := &domain.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Ana", Phone: "555-0100", Role: domain.UserRoleVolunteer}
	users := newMemUsers(local)
	messages := newMemMessages()

	cursor1 := int64(7)
	cursor2 := int64(9)
	peer := &fakePeer{
		users: []peersync.User{
			{UserID: local.ID, Name: "Ana Lopez"},
			{UserID: "22222222-2222-2222-2222-222222222222", Name: "Ben", LastSeenUTC: &lastSeen},
			{UserID: "not-a-uuid", Name: "Broken"},
			{UserID: "33333333-3333-3333-3333-333333333333", Name: "  "},
		},
		pages: []*peersync.MessagePage{
			{
				Messages: []peersync.Message{
					{MessageID: "aaaaaaaa-0000-0000-0000-000000000001", SenderID: "22222222-2222-2222-2222-222222222222", Content: "on my way", SentAtUTC: lastSeen},
				},
				Cursor: cursor1,
				More:   true,
			},
			{
				Messages: []peersync.Message{
					{MessageID: "aaaaaaaa-0000-0000-0000-000000000002", SenderID: "22222222-2222-2222-2222-222222222222", Content: "arrived", SentAtUTC: lastSeen},
					{MessageID: "bad", SenderID: "x", Content: "dropped", SentAtUTC: lastSeen},
				},
				Cursor: cursor2,
			},
		},
	}
	gw := peersync.NewGateway(peer, users, messages, 4)

	report, err := gw.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersInserted)
	assert.Equal(t, 1, report.UsersUpdated)
	assert.Equal(t, 2, report.UsersSkipped)
	assert.Equal(t, 2, report.MessagesInserted)
	assert.Equal(t, 1, report.MessagesSkipped)

	ana := users.get(local.ID)
	assert.Equal(t, "Ana Lopez", ana.Name)
	assert.Equal(t, "555-0100", ana.Phone)

	ben := users.get("22222222-2222-2222-2222-222222222222")
	require.NotNil(t, ben)
	assert.Equal(t, domain.UserRole(""), ben.Role)

	received := messages.get("aaaaaaaa-0000-0000-0000-000000000001")
	require.NotNil(t, received)
	assert.Equal(t, domain.MessageOriginRemote, received.Origin)
	assert.False(t, received.NeedsPush())

	// The next pull resumes from the last cursor.
	_, err = gw.Pull(ctx)
	require.NoError(t, err)
	require.Len(t, peer.sinces, 3)
	assert.Zero(t, peer.sinces[0])
	assert.Equal(t, cursor1, peer.sinces[1])
	assert.Equal(t, cursor2, peer.sinces[2])
}

func TestGateway_PullReportsUnreachablePeer(t *testing.T) {
	peer := &fakePeer{fetchErr: domain.ErrPeerUnavailable}
	gw := peersync.NewGateway(peer, newMemUsers(), newMemMessages(), 4)

	_, err := gw.Pull(context.Background())
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
}

func TestGateway_AcceptIsIdempotent(t *testing.T) {
	ctx := context.Background()
	messages := newMemMessages()
	gw := peersync.NewGateway(nil, newMemUsers(), messages, 1)

	m := peersync.Message{
		MessageID: "aaaaaaaa-0000-0000-0000-000000000009",
		SenderID:  "user-2",
		Content:   "hello",
		SentAtUTC: time.Now().UTC(),
	}

	inserted, err := gw.Accept(ctx, m)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = gw.Accept(ctx, m)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 1, messages.count())

	_, err = gw.Accept(ctx, peersync.Message{MessageID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGateway_MessagesSincePages(t *testing.T) {
	ctx := context.Background()
	messages := newMemMessages()
	gw := peersync.NewGateway(nil, newMemUsers(), messages, 1)

	for i := 0; i < 3; i++ {
		_, err := gw.Send(ctx, peersync.SendParams{SenderID: "user-1", Content: "ping"})
		require.NoError(t, err)
	}

	page, err := gw.MessagesSince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	assert.False(t, page.More)
	assert.Equal(t, int64(3), page.Cursor)
	assert.Equal(t, peersync.SettleWindow, messages.lastSettle)

	next, err := gw.MessagesSince(ctx, page.Cursor)
	require.NoError(t, err)
	assert.Empty(t, next.Messages)
	assert.Equal(t, page.Cursor, next.Cursor)
}

func TestGateway_DirectoryUsesWireShape(t *testing.T) {
	seen := time.Date(2026, 2, 1, 8, 0, 0, 0, time.FixedZone("X", 3600))
	users := newMemUsers(&domain.User{ID: "u1", Name: "Ana", Role: domain.UserRoleVolunteer, LastSeenAt: &seen})
	gw := peersync.NewGateway(nil, users, newMemMessages(), 1)

	dir, err := gw.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, dir.Users, 1)
	assert.Equal(t, "u1", dir.Users[0].UserID)
	assert.Equal(t, "VOLUNTEER", dir.Users[0].Role)
	require.NotNil(t, dir.Users[0].LastSeenUTC)
	assert.Equal(t, time.UTC, dir.Users[0].LastSeenUTC.Location())
}

func TestGateway_DirectoryOmitsUnknownRole(t *testing.T) {
	users := newMemUsers(&domain.User{ID: "u1", Name: "Remote", Role: domain.UserRoleUnknown})
	gw := peersync.NewGateway(nil, users, newMemMessages(), 1)

	dir, err := gw.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, dir.Users, 1)
	assert.Empty(t, dir.Users[0].Role)
}

func TestGateway_PullSkipsNamesThatBreakRosters(t *testing.T) {
	peer := &fakePeer{
		users: []peersync.User{
			{UserID: "44444444-4444-4444-4444-444444444441", Name: "Smith, John"},
			{UserID: "44444444-4444-4444-4444-444444444442", Name: "None"},
			{UserID: "44444444-4444-4444-4444-444444444443", Name: " Ana"},
			{UserID: "44444444-4444-4444-4444-444444444444", Name: "A,B"},
			{UserID: "44444444-4444-4444-4444-444444444445", Name: "Cy"},
		},
	}
	users := newMemUsers()
	gw := peersync.NewGateway(peer, users, newMemMessages(), 1)

	report, err := gw.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.UsersSkipped)
	assert.Equal(t, 1, report.UsersInserted)

	for _, u := range peer.users[:4] {
		assert.Nil(t, users.get(u.UserID), "%q should not be merged", u.Name)
	}
	cy := users.get("44444444-4444-4444-4444-444444444445")
	require.NotNil(t, cy)
	assert.Equal(t, "Cy", cy.Name)
}

// gatewayPeer serves another in-process gateway as a Peer.
type gatewayPeer struct {
	remote *peersync.Gateway
}

func (p gatewayPeer) FetchDirectory(ctx context.Context) ([]peersync.User, error) {
	dir, err := p.remote.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Users, nil
}

func (p gatewayPeer) FetchMessages(ctx context.Context, after int64) (*peersync.MessagePage, error) {
	return p.remote.MessagesSince(ctx, after)
}

func (p gatewayPeer) PushMessage(ctx context.Context, m peersync.Message) error {
	_, err := p.remote.Accept(ctx, m)
	return err
}

func TestGateway_PullDeliversMessagesStoredAtTheSameInstant(t *testing.T) {
	ctx := context.Background()
	remoteMessages := newMemMessages()
	remoteMessages.tick = 0
	remote := peersync.NewGateway(nil, newMemUsers(), remoteMessages, 1)

	total := peersync.PageSize + 5
	for i := 0; i < total; i++ {
		_, err := remote.Send(ctx, peersync.SendParams{SenderID: "user-1", Content: "ping"})
		require.NoError(t, err)
	}

	localMessages := newMemMessages()
	local := peersync.NewGateway(gatewayPeer{remote: remote}, newMemUsers(), localMessages, 1)

	report, err := local.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, report.MessagesInserted)
	assert.Equal(t, total, localMessages.count())

	again, err := local.Pull(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.MessagesInserted)
}
