package peersync_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/peersync"
)

// memUsers is an in-memory DirectoryStore.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers(users ...*domain.User) *memUsers {
	s := &memUsers{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUsers) Upsert(_ context.Context, u *domain.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		s.users[u.ID] = u
		return true, nil
	}
	if u.Name != "" {
		existing.Name = u.Name
	}
	if u.Phone != "" {
		existing.Phone = u.Phone
	}
	return false, nil
}

func (s *memUsers) ListUpdatedSince(_ context.Context, _ time.Time) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUsers) get(id string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

// memMessages is an in-memory MessageStore with a storage sequence and a
// storage clock advancing by tick per insert.
type memMessages struct {
	mu         sync.Mutex
	order      []*domain.ChatMessage
	byID       map[string]*domain.ChatMessage
	seq        int64
	clock      time.Time
	tick       time.Duration
	lastSettle time.Duration
	failNext   error
}

func newMemMessages() *memMessages {
	return &memMessages{
		byID:  make(map[string]*domain.ChatMessage),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		tick:  time.Second,
	}
}

func (s *memMessages) Insert(_ context.Context, m *domain.ChatMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return false, err
	}
	if _, ok := s.byID[m.ID]; ok {
		return false, nil
	}
	s.seq++
	s.clock = s.clock.Add(s.tick)
	stored := *m
	stored.Seq = s.seq
	stored.ReceivedAt = s.clock
	m.Seq = s.seq
	m.ReceivedAt = s.clock
	s.byID[m.ID] = &stored
	s.order = append(s.order, &stored)
	return true, nil
}

func (s *memMessages) ListSince(_ context.Context, after int64, settle time.Duration, limit uint64) ([]*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSettle = settle
	var out []*domain.ChatMessage
	for _, m := range s.order {
		if m.Seq > after {
			copied := *m
			out = append(out, &copied)
			if uint64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memMessages) ListPendingPush(_ context.Context, limit uint64) ([]*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ChatMessage
	for _, m := range s.order {
		if m.NeedsPush() {
			copied := *m
			out = append(out, &copied)
			if uint64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memMessages) MarkPushed(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.byID[id]; ok && m.PushedAt == nil {
		m.PushedAt = &at
	}
	return nil
}

func (s *memMessages) get(id string) *domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil
	}
	copied := *m
	return &copied
}

func (s *memMessages) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// fakePeer is a scripted Peer.
type fakePeer struct {
	mu       sync.Mutex
	users    []peersync.User
	pages    []*peersync.MessagePage
	sinces   []int64
	pushed   []peersync.Message
	pushErr  error
	fetchErr error
}

func (p *fakePeer) FetchDirectory(context.Context) ([]peersync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.users, nil
}

func (p *fakePeer) FetchMessages(_ context.Context, after int64) (*peersync.MessagePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinces = append(p.sinces, after)
	if len(p.pages) == 0 {
		return &peersync.MessagePage{Cursor: after}, nil
	}
	page := p.pages[0]
	p.pages = p.pages[1:]
	return page, nil
}

func (p *fakePeer) PushMessage(_ context.Context, m peersync.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushErr != nil {
		return p.pushErr
	}
	p.pushed = append(p.pushed, m)
	return nil
}

func (p *fakePeer) setPushErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushErr = err
}

func (p *fakePeer) pushedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.pushed))
	for _, m := range p.pushed {
		ids = append(ids, m.MessageID)
	}
	return ids
}
