package spectate

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Subscriber is one spectator's outbound queue of encoded events.
// Snapshot frames are throttled by the subscriber's limiter; discrete
// events always pass.
type Subscriber struct {
	id        string
	frames    chan []byte
	limiter   *rate.Limiter
	done      chan struct{}
	closeOnce sync.Once
}

// newSubscriber creates a subscriber with a random ID.
func newSubscriber(bufferSize int, frameRate rate.Limit, burst int) *Subscriber {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &Subscriber{
		id:      uuid.NewString(),
		frames:  make(chan []byte, bufferSize),
		limiter: rate.NewLimiter(frameRate, burst),
		done:    make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Frames returns the channel of encoded events.
func (s *Subscriber) Frames() <-chan []byte {
	return s.frames
}

// Done returns a channel that closes when the subscriber is removed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// wantsSnapshot reports whether the limiter admits another snapshot frame.
func (s *Subscriber) wantsSnapshot() bool {
	return s.limiter.Allow()
}

// send queues a frame without blocking. When the queue is full the oldest
// frame is dropped. Returns false if a frame was lost.
func (s *Subscriber) send(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.frames <- frame:
		return true
	default:
	}

	select {
	case <-s.frames:
	default:
	}
	select {
	case s.frames <- frame:
	default:
	}
	return false
}

// close marks the subscriber as done. Safe to call multiple times.
func (s *Subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
