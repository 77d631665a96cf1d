package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// Saver persists board snapshots. The high score is never handed to it.
type Saver interface {
	SaveSnapshot(ctx context.Context, id string, state structs.EngineState) error
	// LoadSnapshot reports found=false when no snapshot exists for id.
	LoadSnapshot(ctx context.Context, id string) (state structs.EngineState, found bool, err error)
	DeleteSnapshot(ctx context.Context, id string) error
}

const (
	saveTimeout   = 5 * time.Second
	subscriberBuf = 8
)

// Session owns one engine and serializes every call into it. When built
// with a positive interval it drives the engine on its own goroutine
// after Start; otherwise the caller ticks.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *snake.Engine
	last     *structs.TickResult
	paused   bool
	interval time.Duration
	cancel   context.CancelFunc
	gen      int // 每次开局/暂停递增，旧的驱动协程据此退出

	subs  map[chan structs.Frame]struct{}
	saver Saver

	saveMu sync.Mutex // 串行化快照写入和Stop
	closed bool       // Stop之后不再写快照
}

// New creates a session in the menu state. saver may be nil.
func New(id string, seed uint64, interval time.Duration, saver Saver) *Session {
	return &Session{
		ID:       id,
		engine:   snake.NewEngine(seed),
		interval: interval,
		subs:     make(map[chan structs.Frame]struct{}),
		saver:    saver,
	}
}

// Start begins a new game and, in auto mode, starts ticking it.
func (s *Session) Start(width, height int) (structs.Frame, error) {
	s.mu.Lock()
	if err := s.engine.Start(width, height); err != nil {
		s.mu.Unlock()
		return structs.Frame{}, err
	}
	s.stopDriverLocked()
	s.last = nil
	s.paused = false
	frame := s.frameLocked()
	if s.interval > 0 {
		s.startDriverLocked()
	}
	s.mu.Unlock()

	log.Printf("session %s: started %dx%d", s.ID, width, height)
	s.publish(frame)
	s.save(frame.State)
	return frame, nil
}

// Restore loads a snapshot into the session. A game still in progress
// comes back paused.
func (s *Session) Restore(state structs.EngineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Restore(state); err != nil {
		return err
	}
	s.stopDriverLocked()
	s.last = nil
	s.paused = state.Status == structs.StatusPlaying
	return nil
}

// SetDirection forwards a steering request to the engine.
func (s *Session) SetDirection(d structs.Direction) {
	s.mu.Lock()
	s.engine.SetDirection(d)
	s.mu.Unlock()
}

// Tick advances the game by one step unless it is paused.
func (s *Session) Tick() structs.TickResult {
	res, _ := s.tick(-1)
	return res
}

// tick 带代数检查，gen<0 表示手动调用
func (s *Session) tick(gen int) (structs.TickResult, bool) {
	s.mu.Lock()
	if gen >= 0 && gen != s.gen {
		s.mu.Unlock()
		return structs.TickResult{}, false
	}
	before := s.engine.Status()
	if s.paused || before != structs.StatusPlaying {
		res := structs.TickResult{Status: before}
		if s.last != nil {
			res.NewHead = s.last.NewHead
		}
		s.mu.Unlock()
		return res, before == structs.StatusPlaying
	}
	res := s.engine.Tick()
	s.last = &res
	frame := s.frameLocked()
	s.mu.Unlock()

	s.publish(frame)
	if res.Status.Terminal() {
		log.Printf("session %s: %s, score %d, high score %d",
			s.ID, res.Status, frame.State.Score, frame.HighScore)
		s.save(frame.State)
	}
	return res, res.Status == structs.StatusPlaying
}

// Pause stops the driver. Manual ticks are refused until Resume.
func (s *Session) Pause() structs.Frame {
	s.mu.Lock()
	s.stopDriverLocked()
	if s.engine.Status() == structs.StatusPlaying {
		s.paused = true
	}
	frame := s.frameLocked()
	s.mu.Unlock()

	s.publish(frame)
	if frame.State.Status == structs.StatusPlaying {
		s.save(frame.State)
	}
	return frame
}

// Resume continues a paused game.
func (s *Session) Resume() structs.Frame {
	s.mu.Lock()
	if s.paused && s.engine.Status() == structs.StatusPlaying {
		s.paused = false
		if s.interval > 0 {
			s.startDriverLocked()
		}
	}
	frame := s.frameLocked()
	s.mu.Unlock()

	s.publish(frame)
	return frame
}

// Stop halts the driver and closes all subscriptions. Once Stop returns
// no further snapshot is written for the session.
func (s *Session) Stop() {
	s.saveMu.Lock()
	s.closed = true
	s.saveMu.Unlock()

	s.mu.Lock()
	s.stopDriverLocked()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// Frame returns the current frame.
func (s *Session) Frame() structs.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

// Subscribe returns a channel receiving a frame after every start, tick
// and pause. Frames are dropped for a subscriber that falls behind. The
// returned func unsubscribes.
func (s *Session) Subscribe() (<-chan structs.Frame, func()) {
	ch := make(chan structs.Frame, subscriberBuf)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Session) frameLocked() structs.Frame {
	f := structs.Frame{
		SessionID: s.ID,
		State:     s.engine.State(),
		HighScore: s.engine.HighScore(),
		Paused:    s.paused,
	}
	if s.last != nil {
		last := *s.last
		f.Last = &last
	}
	return f
}

func (s *Session) publish(f structs.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *Session) save(state structs.EngineState) {
	if s.saver == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.closed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.saver.SaveSnapshot(ctx, s.ID, state); err != nil {
		log.Printf("session %s: save snapshot: %v", s.ID, err)
	}
}

func (s *Session) startDriverLocked() {
	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx, s.gen, s.interval)
}

func (s *Session) stopDriverLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// run 定时驱动tick，游戏结束或被取消时退出
func (s *Session) run(ctx context.Context, gen int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, more := s.tick(gen); !more {
				return
			}
		}
	}
}
