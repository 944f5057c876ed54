package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/store"
)

var ErrInvalidSurface = errors.New("invalid surface size")

// Options configures a Manager. Parking may be nil, in which case idle
// sessions are dropped instead of parked.
type Options struct {
	Surface   aim.Surface
	Tuning    aim.Tuning
	Snapshots store.SnapshotStore
	Parking   store.SnapshotStore
	Sink      Sink
}

// Manager owns every live session on this instance.
type Manager struct {
	sessions map[string]*Session
	opts     Options
	mu       sync.RWMutex
}

func NewManager(opts Options) *Manager {
	if opts.Surface.Width <= 0 || opts.Surface.Height <= 0 {
		opts.Surface = aim.DefaultSurface()
	}
	if opts.Tuning == (aim.Tuning{}) {
		opts.Tuning = aim.DefaultTuning()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// parked is what an idle session leaves behind in the parking store.
type parked struct {
	Surface  aim.Surface     `json:"surface"`
	Snapshot json.RawMessage `json:"snapshot"`
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "aim_" + hex.EncodeToString(b)
}

func validSurface(s aim.Surface) bool {
	finite := !math.IsNaN(s.Width) && !math.IsInf(s.Width, 0) && !math.IsNaN(s.Height) && !math.IsInf(s.Height, 0)
	return finite && s.Width >= aim.MinTableWidth && s.Height >= aim.MinTableHeight
}

// Create starts a new session. A nil surface uses the manager's default.
func (m *Manager) Create(surface *aim.Surface) (*Session, error) {
	sf := m.opts.Surface
	if surface != nil {
		sf = *surface
	}
	if !validSurface(sf) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidSurface, sf.Width, sf.Height)
	}

	s := m.start(generateID(), aim.NewState(sf, m.opts.Tuning))
	log.Printf("[SESSION] created %s (surface %gx%g)", s.ID, sf.Width, sf.Height)
	return s, nil
}

func (m *Manager) start(id string, st aim.State) *Session {
	s := newSession(id, st, m.opts.Snapshots, m.opts.Sink)
	s.onClose = m.forget

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// forget runs when a session closes itself. A parked copy must not outlive
// the close.
func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.dropParked(ctx, id)
}

func (m *Manager) dropParked(ctx context.Context, id string) {
	if m.opts.Parking == nil {
		return
	}
	if err := m.opts.Parking.DeleteSnapshot(ctx, id); err != nil {
		log.Printf("[SESSION] failed to drop parked session %s: %v", id, err)
	}
}

// Get returns a live session, resuming a parked one if needed.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}
	if m.opts.Parking == nil {
		return nil, ErrNotFound
	}

	data, err := m.opts.Parking.LoadSnapshot(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load parked session %s: %w", id, err)
	}
	var p parked
	if err := json.Unmarshal(data, &p); err != nil || !validSurface(p.Surface) {
		log.Printf("[SESSION] discarding unreadable parked session %s", id)
		m.dropParked(ctx, id)
		return nil, ErrNotFound
	}
	st, skipped, err := aim.Restore(aim.NewState(p.Surface, m.opts.Tuning), p.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore parked session %s: %w", id, err)
	}
	if len(skipped) > 0 {
		log.Printf("[SESSION] resumed %s without fields %v", id, skipped)
	}

	// Another request may have resumed it first.
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	s = newSession(id, st, m.opts.Snapshots, m.opts.Sink)
	s.onClose = m.forget
	m.sessions[id] = s
	m.mu.Unlock()

	// The live session is now the only copy.
	m.dropParked(ctx, id)
	log.Printf("[SESSION] resumed parked session %s", id)
	return s, nil
}

// Remove stops a session and forgets it, along with any parked copy. It is
// ErrNotFound only when the id is neither live nor parked.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	s, live := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if live {
		s.Stop()
	}

	if m.opts.Parking == nil {
		if !live {
			return ErrNotFound
		}
		log.Printf("[SESSION] removed %s", id)
		return nil
	}
	if !live {
		_, err := m.opts.Parking.LoadSnapshot(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load parked session %s: %w", id, err)
		}
	}
	if err := m.opts.Parking.DeleteSnapshot(ctx, id); err != nil {
		return fmt.Errorf("drop parked session %s: %w", id, err)
	}
	log.Printf("[SESSION] removed %s", id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) snapshotList() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	return list
}

// park stores a session in the parking store (if any), then stops it. The
// store write is the session's last request, so nothing queued behind it can
// change the state after it was captured.
func (m *Manager) park(ctx context.Context, s *Session) error {
	if m.opts.Parking != nil {
		err := s.finish(ctx, func(ctx context.Context, st aim.State) error {
			snap, err := aim.Capture(st).Encode()
			if err != nil {
				return err
			}
			data, err := json.Marshal(parked{Surface: st.Surface, Snapshot: snap})
			if err != nil {
				return err
			}
			return m.opts.Parking.SaveSnapshot(ctx, s.ID, data)
		})
		if err != nil {
			select {
			case <-s.Done():
				m.release(s)
			default:
			}
			return err
		}
	}

	m.release(s)
	s.Stop()
	return nil
}

// release drops s from the live map unless another session took its id.
func (m *Manager) release(s *Session) {
	m.mu.Lock()
	if cur, ok := m.sessions[s.ID]; ok && cur == s {
		delete(m.sessions, s.ID)
	}
	m.mu.Unlock()
}

// SweepIdle parks every session idle for longer than idleAfter and returns
// how many it parked.
func (m *Manager) SweepIdle(ctx context.Context, idleAfter time.Duration) int {
	cutoff := time.Now().Add(-idleAfter)
	n := 0
	for _, s := range m.snapshotList() {
		if s.LastActive().After(cutoff) {
			continue
		}
		if err := m.park(ctx, s); err != nil {
			log.Printf("[SESSION] failed to park idle session %s: %v", s.ID, err)
			continue
		}
		n++
	}
	return n
}

// StartIdleSweeper parks idle sessions every interval until ctx is done.
func (m *Manager) StartIdleSweeper(ctx context.Context, idleAfter, every time.Duration) {
	log.Printf("[SESSION] idle sweeper started (idle=%s every=%s)", idleAfter, every)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[SESSION] idle sweeper stopping")
				return
			case <-ticker.C:
				if n := m.SweepIdle(ctx, idleAfter); n > 0 {
					log.Printf("[SESSION] parked %d idle sessions (%d live)", n, m.Count())
				}
			}
		}
	}()
}

// Shutdown parks every live session.
func (m *Manager) Shutdown(ctx context.Context) {
	for _, s := range m.snapshotList() {
		if err := m.park(ctx, s); err != nil {
			log.Printf("[SESSION] failed to park %s on shutdown: %v", s.ID, err)
			s.Stop()
		}
	}
}
