package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/store"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("session closed")
)

// Sink receives the frames a session produces. Implementations must not
// block for long: they are called from the session goroutine.
type Sink interface {
	Frame(sessionID string, m aim.RenderModel)
	Closed(sessionID string)
}

// Result is the outcome of one request against a session.
type Result struct {
	Frame  aim.RenderModel `json:"frame"`
	Effect aim.Effect      `json:"-"`
}

type op func(ctx context.Context, st *aim.State) (aim.Effect, error)

type reply struct {
	res Result
	err error
}

type request struct {
	ctx   context.Context
	op    op
	reply chan reply
	// last ends the session once op succeeds. No frame is emitted.
	last bool
}

// Session owns one aim.State. Every read and write of the state happens on
// the session goroutine, one request at a time.
type Session struct {
	ID string

	requests chan request
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	lastActive atomic.Int64
	createdAt  time.Time

	snapshots store.SnapshotStore
	sink      Sink
	onClose   func(id string)

	state aim.State
}

func newSession(id string, st aim.State, snapshots store.SnapshotStore, sink Sink) *Session {
	s := &Session{
		ID:        id,
		requests:  make(chan request, 64),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		createdAt: time.Now(),
		snapshots: snapshots,
		sink:      sink,
		state:     st,
	}
	s.touch()
	go s.run()
	return s
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive is when the session last received a request.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case req := <-s.requests:
			if closed := s.handle(req); closed {
				return
			}
		case <-s.quit:
			return
		}
	}
}

// handle runs one request and reports whether the session closed itself.
func (s *Session) handle(req request) bool {
	effect, err := req.op(req.ctx, &s.state)
	if req.last {
		req.reply <- reply{err: err}
		return err == nil
	}
	if err == nil {
		err = s.runEffect(req.ctx, effect)
	}

	var m aim.RenderModel
	s.state, m = aim.Frame(s.state)
	req.reply <- reply{res: Result{Frame: m, Effect: effect}, err: err}

	if effect == aim.EffectNone {
		return false
	}
	if s.sink != nil {
		s.sink.Frame(s.ID, m)
	}
	if effect != aim.EffectClose {
		return false
	}

	log.Printf("[SESSION] %s closed by client", s.ID)
	if s.sink != nil {
		s.sink.Closed(s.ID)
	}
	if s.onClose != nil {
		s.onClose(s.ID)
	}
	return true
}

// runEffect performs the persistence side of save and load.
func (s *Session) runEffect(ctx context.Context, effect aim.Effect) error {
	if s.snapshots == nil || (effect != aim.EffectSave && effect != aim.EffectLoad) {
		return nil
	}

	if effect == aim.EffectSave {
		data, err := aim.Capture(s.state).Encode()
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := s.snapshots.SaveSnapshot(ctx, s.ID, data); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	}

	data, err := s.snapshots.LoadSnapshot(ctx, s.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[SESSION] %s: nothing saved yet, keeping current layout", s.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	next, skipped, err := aim.Restore(s.state, data)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		log.Printf("[SESSION] %s: ignored invalid fields %v", s.ID, skipped)
	}
	s.state = next
	return nil
}

func (s *Session) do(ctx context.Context, fn op) (Result, error) {
	return s.send(ctx, request{ctx: ctx, op: fn, reply: make(chan reply, 1)})
}

func (s *Session) send(ctx context.Context, req request) (Result, error) {
	select {
	case s.requests <- req:
	case <-s.done:
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	s.touch()

	select {
	case r := <-req.reply:
		return r.res, r.err
	case <-s.done:
		select {
		case r := <-req.reply:
			return r.res, r.err
		default:
			return Result{}, ErrClosed
		}
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Submit applies one input command and returns the resulting frame.
func (s *Session) Submit(ctx context.Context, cmd aim.Command) (Result, error) {
	return s.do(ctx, func(_ context.Context, st *aim.State) (aim.Effect, error) {
		next, effect := aim.Handle(*st, cmd)
		*st = next
		return effect, nil
	})
}

// Frame renders the current state without changing it.
func (s *Session) Frame(ctx context.Context) (aim.RenderModel, error) {
	res, err := s.do(ctx, func(context.Context, *aim.State) (aim.Effect, error) {
		return aim.EffectNone, nil
	})
	return res.Frame, err
}

// Save writes the current layout to the session's snapshot store.
func (s *Session) Save(ctx context.Context) (Result, error) {
	return s.do(ctx, func(context.Context, *aim.State) (aim.Effect, error) {
		return aim.EffectSave, nil
	})
}

// Load restores the layout last saved for this session.
func (s *Session) Load(ctx context.Context) (Result, error) {
	return s.do(ctx, func(context.Context, *aim.State) (aim.Effect, error) {
		return aim.EffectLoad, nil
	})
}

// Snapshot returns the encoded persistent part of the state.
func (s *Session) Snapshot(ctx context.Context) ([]byte, error) {
	var data []byte
	_, err := s.do(ctx, func(_ context.Context, st *aim.State) (aim.Effect, error) {
		var err error
		data, err = aim.Capture(*st).Encode()
		return aim.EffectNone, err
	})
	return data, err
}

// Apply restores snapshot data (a saved layout) onto the session and returns
// the names of fields that were invalid and skipped.
func (s *Session) Apply(ctx context.Context, data []byte) (Result, []string, error) {
	var skipped []string
	res, err := s.do(ctx, func(_ context.Context, st *aim.State) (aim.Effect, error) {
		next, sk, err := aim.Restore(*st, data)
		if err != nil {
			return aim.EffectNone, err
		}
		*st, skipped = next, sk
		return aim.EffectRedraw, nil
	})
	return res, skipped, err
}

// State returns a copy of the current state.
func (s *Session) State(ctx context.Context) (aim.State, error) {
	var out aim.State
	_, err := s.do(ctx, func(_ context.Context, st *aim.State) (aim.Effect, error) {
		out = *st
		return aim.EffectNone, nil
	})
	return out, err
}

// finish hands the final state to fn and, if fn succeeds, ends the session.
// Requests queued behind it fail with ErrClosed. On error the session keeps
// running.
func (s *Session) finish(ctx context.Context, fn func(context.Context, aim.State) error) error {
	_, err := s.send(ctx, request{
		ctx: ctx,
		op: func(ctx context.Context, st *aim.State) (aim.Effect, error) {
			return aim.EffectNone, fn(ctx, *st)
		},
		reply: make(chan reply, 1),
		last:  true,
	})
	if err != nil {
		return err
	}
	<-s.done
	return nil
}

// Stop ends the session goroutine and waits for it to exit.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.done
}

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
