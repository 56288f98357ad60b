package spectate

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
)

// HubConfig tunes the fan-out.
type HubConfig struct {
	FrameRate        float64 // Snapshot frames per second per spectator
	FrameBurst       int
	QueueSize        int // Observations buffered between the engine and the hub
	SubscriberBuffer int // Frames buffered per spectator
}

// DefaultHubConfig returns a config with sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		FrameRate:        20,
		FrameBurst:       2,
		QueueSize:        256,
		SubscriberBuffer: 64,
	}
}

// observation is one tick handed over by the engine.
type observation struct {
	snap badminton.Snapshot
	res  badminton.TickResult
}

// Hub receives ticks from one session and fans them out to spectators.
type Hub struct {
	cfg     HubConfig
	metrics *Metrics
	logger  *log.Logger
	in      chan observation

	mu      sync.RWMutex
	subs    map[string]*Subscriber
	latest  badminton.Snapshot
	started bool
	faulted bool
}

// NewHub creates a hub. Call Run to start delivering frames.
func NewHub(cfg HubConfig, metrics *Metrics, logger *log.Logger) *Hub {
	def := DefaultHubConfig()
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if cfg.FrameBurst < 1 {
		cfg.FrameBurst = def.FrameBurst
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = def.QueueSize
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		in:      make(chan observation, cfg.QueueSize),
		subs:    make(map[string]*Subscriber),
	}
}

// Observe implements badminton.Observer. It never blocks: when the queue is
// full the observation is dropped for spectators but still counted.
func (h *Hub) Observe(snap badminton.Snapshot, res badminton.TickResult) {
	h.metrics.observe(res)

	h.mu.Lock()
	h.latest = snap
	h.started = true
	newFault := res.Err != nil && !h.faulted
	h.faulted = res.Err != nil
	h.mu.Unlock()

	if newFault {
		h.metrics.faults.Inc()
		h.logger.Error("session halted", "tick", res.Tick, "error", res.Err)
	}
	if p := res.Point; p != nil {
		h.logger.Debug("point", "tick", res.Tick, "winner", p.Winner, "cause", p.Cause, "score", p.Score)
	}
	if m := res.Match; m != nil {
		h.logger.Info("match ended", "winner", m.Winner, "score", m.Score, "rank", m.Rank.To, "ranked_up", m.Rank.RankedUp())
	}

	if res.Err != nil && !newFault {
		return
	}
	select {
	case h.in <- observation{snap: snap, res: res}:
	default:
		h.metrics.dropped.Inc()
	}
}

// Latest returns the most recent snapshot and whether any tick was observed.
func (h *Hub) Latest() (badminton.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.started
}

// Subscribe registers a new spectator.
func (h *Hub) Subscribe() *Subscriber {
	sub := newSubscriber(h.cfg.SubscriberBuffer, rate.Limit(h.cfg.FrameRate), h.cfg.FrameBurst)

	h.mu.Lock()
	h.subs[sub.id] = sub
	count := len(h.subs)
	h.mu.Unlock()

	h.metrics.spectators.Set(float64(count))
	h.logger.Info("spectator joined", "id", sub.id, "spectators", count)
	return sub
}

// Unsubscribe removes a spectator and closes its Done channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	count := len(h.subs)
	h.mu.Unlock()

	if !ok {
		return
	}
	sub.close()
	h.metrics.spectators.Set(float64(count))
	h.logger.Info("spectator left", "id", id, "spectators", count)
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Run delivers queued observations until ctx is cancelled, then removes
// every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case obs := <-h.in:
			h.dispatch(obs)
		}
	}
}

// dispatch encodes an observation once and hands it to every subscriber.
func (h *Hub) dispatch(obs observation) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()
	if len(subs) == 0 {
		return
	}

	events := eventsFor(obs.res)
	if obs.res.Err != nil {
		events = append(events, FaultEvent{Tick: obs.res.Tick, Error: obs.res.Err.Error()})
	}
	discrete := make([][]byte, 0, len(events))
	for _, e := range events {
		frame, err := Encode(e)
		if err != nil {
			h.logger.Warn("encode failed", "event", e.Name(), "error", err)
			continue
		}
		discrete = append(discrete, frame)
	}

	var snapFrame []byte
	for _, sub := range subs {
		// Discrete events force a fresh snapshot so spectators see the final state.
		if len(discrete) > 0 || sub.wantsSnapshot() {
			if snapFrame == nil {
				var err error
				if snapFrame, err = Encode(SnapshotEvent{Snapshot: obs.snap}); err != nil {
					h.logger.Warn("encode failed", "event", "snapshot", "error", err)
					return
				}
			}
			if !sub.send(snapFrame) {
				h.metrics.dropped.Inc()
			}
		}
		for _, frame := range discrete {
			if !sub.send(frame) {
				h.metrics.dropped.Inc()
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*Subscriber)
	h.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
	h.metrics.spectators.Set(0)
}

var _ badminton.Observer = (*Hub)(nil)
