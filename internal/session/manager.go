package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"marquee/internal/logging"
	"marquee/internal/match"
)

var (
	ErrAlreadyOpen      = errors.New("a selection is already open for this user in this channel")
	ErrNotFound         = errors.New("no open selection with that identifier")
	ErrNotOwner         = errors.New("this selection belongs to another user")
	ErrInvalidSelection = errors.New("selection index out of range")
	ErrExpired          = errors.New("selection timed out")
	ErrCancelled        = errors.New("selection was cancelled")
)

// State tracks a session through its lifecycle. Every state except Open is
// terminal; there are no transitions out of a terminal state.
type State int

const (
	Open State = iota
	Resolved
	Expired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Resolved:
		return "resolved"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Key identifies the one slot a user may hold per conversation channel.
type Key struct {
	OwnerUserID string
	ChannelID   string
}

// Session is a snapshot of a disambiguation exchange. Copies are handed out;
// the manager owns the live record.
type Session struct {
	ID         string
	Key        Key
	Candidates []match.Ranked
	CreatedAt  time.Time
	ExpiresAt  time.Time
	State      State
}

// entry is the live record. Its own mutex guards state transitions so
// unrelated sessions never contend with each other; the manager mutex only
// protects the lookup maps.
type entry struct {
	mu    sync.Mutex
	sess  Session
	timer *time.Timer
}

// Manager owns the set of active disambiguation sessions. The first terminal
// transition on a session wins: a choose racing an expiry observes whichever
// state committed first.
type Manager struct {
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	byKey    map[Key]*entry
	byID     map[string]*entry
	onExpire func(Session)
	closed   bool
}

// Terminal sessions stay resolvable by ID briefly so a late callback gets a
// precise error instead of "not found".
const tombstoneTTL = 5 * time.Minute

// NewManager builds a session manager with the given selection timeout.
func NewManager(timeout time.Duration, logger *slog.Logger) *Manager {
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
		byKey:   make(map[Key]*entry),
		byID:    make(map[string]*entry),
	}
}

// OnExpire registers a callback invoked after a session expires. The callback
// runs outside all locks.
func (m *Manager) OnExpire(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// Open creates a session for (owner, channel) offering the given candidates.
// A second open for the same key while the first is still pending fails with
// ErrAlreadyOpen.
func (m *Manager) Open(key Key, candidates []match.Ranked) (Session, error) {
	if len(candidates) == 0 {
		return Session{}, ErrInvalidSelection
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Session{}, errors.New("session manager closed")
	}
	if existing, ok := m.byKey[key]; ok {
		existing.mu.Lock()
		stillOpen := existing.sess.State == Open
		existing.mu.Unlock()
		if stillOpen {
			m.mu.Unlock()
			return Session{}, ErrAlreadyOpen
		}
		delete(m.byKey, key)
	}

	now := m.now()
	offers := make([]match.Ranked, len(candidates))
	copy(offers, candidates)
	e := &entry{
		sess: Session{
			ID:         uuid.NewString(),
			Key:        key,
			Candidates: offers,
			CreatedAt:  now,
			ExpiresAt:  now.Add(m.timeout),
			State:      Open,
		},
	}
	e.timer = time.AfterFunc(m.timeout, func() { m.expire(e) })
	m.byKey[key] = e
	m.byID[e.sess.ID] = e
	snapshot := e.snapshot()
	m.mu.Unlock()

	m.logger.Info("selection opened",
		logging.String(logging.FieldSessionID, snapshot.ID),
		logging.String(logging.FieldUserID, key.OwnerUserID),
		logging.String(logging.FieldChannelID, key.ChannelID),
		logging.Int("candidates", len(offers)),
		logging.Duration("timeout", m.timeout))
	return snapshot, nil
}

// Choose resolves an open session to exactly one candidate. Only the owner
// may choose; non-owners get ErrNotOwner and the session stays open. An index
// outside the offered range fails with ErrInvalidSelection without altering
// state. A choose landing after expiry reports ErrExpired.
func (m *Manager) Choose(sessionID, callerUserID string, index int) (match.Ranked, Session, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return match.Ranked{}, Session{}, err
	}

	e.mu.Lock()
	switch e.sess.State {
	case Expired:
		e.mu.Unlock()
		return match.Ranked{}, Session{}, ErrExpired
	case Cancelled:
		e.mu.Unlock()
		return match.Ranked{}, Session{}, ErrCancelled
	case Resolved:
		e.mu.Unlock()
		return match.Ranked{}, Session{}, ErrNotFound
	}
	if e.sess.Key.OwnerUserID != callerUserID {
		// Reveal nothing about selection validity to non-owners.
		e.mu.Unlock()
		return match.Ranked{}, Session{}, ErrNotOwner
	}
	if index < 0 || index >= len(e.sess.Candidates) {
		e.mu.Unlock()
		return match.Ranked{}, Session{}, ErrInvalidSelection
	}

	e.sess.State = Resolved
	chosen := e.sess.Candidates[index]
	snapshot := e.snapshotLocked()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()

	m.evict(e)
	m.logger.Info("selection resolved",
		logging.String(logging.FieldSessionID, snapshot.ID),
		logging.String(logging.FieldUserID, callerUserID),
		logging.Int("index", index),
		logging.String("candidate", chosen.Label()))
	return chosen, snapshot, nil
}

// Cancel abandons an open session. Only the owner may cancel.
func (m *Manager) Cancel(sessionID, callerUserID string) error {
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	switch e.sess.State {
	case Expired:
		e.mu.Unlock()
		return ErrExpired
	case Cancelled, Resolved:
		e.mu.Unlock()
		return ErrNotFound
	}
	if e.sess.Key.OwnerUserID != callerUserID {
		e.mu.Unlock()
		return ErrNotOwner
	}
	e.sess.State = Cancelled
	snapshot := e.snapshotLocked()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()

	m.evict(e)
	m.logger.Info("selection cancelled",
		logging.String(logging.FieldSessionID, snapshot.ID),
		logging.String(logging.FieldUserID, callerUserID))
	return nil
}

// Get returns a snapshot of the session if it is still tracked.
func (m *Manager) Get(sessionID string) (Session, bool) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return Session{}, false
	}
	return e.snapshot(), true
}

// OpenCount reports the number of sessions currently in the Open state.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// Close stops every pending timer. Open sessions are dropped without
// transitioning; in-memory state is process-scoped by design.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, e := range m.byID {
		e.mu.Lock()
		if e.timer != nil {
			e.timer.Stop()
		}
		e.mu.Unlock()
	}
	m.byKey = make(map[Key]*entry)
	m.byID = make(map[string]*entry)
}

func (m *Manager) expire(e *entry) {
	e.mu.Lock()
	if e.sess.State != Open {
		// A choose or cancel committed first; expiry loses the race.
		e.mu.Unlock()
		return
	}
	e.sess.State = Expired
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	m.evict(e)
	m.logger.Info("selection expired",
		logging.String(logging.FieldSessionID, snapshot.ID),
		logging.String(logging.FieldUserID, snapshot.Key.OwnerUserID),
		logging.String(logging.FieldChannelID, snapshot.Key.ChannelID))

	m.mu.Lock()
	fn := m.onExpire
	m.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// evict removes the key slot immediately so the owner can open a fresh
// session, and schedules removal of the ID tombstone.
func (m *Manager) evict(e *entry) {
	m.mu.Lock()
	if current, ok := m.byKey[e.sess.Key]; ok && current == e {
		delete(m.byKey, e.sess.Key)
	}
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	id := e.sess.ID
	time.AfterFunc(tombstoneTTL, func() {
		m.mu.Lock()
		delete(m.byID, id)
		m.mu.Unlock()
	})
}

func (m *Manager) lookup(sessionID string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (e *entry) snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *entry) snapshotLocked() Session {
	s := e.sess
	s.Candidates = append([]match.Ranked(nil), e.sess.Candidates...)
	return s
}
