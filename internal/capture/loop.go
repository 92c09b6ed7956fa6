package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/metrics"
	"github.com/hostelhq/rollcall/internal/qr"
)

// DefaultInterval is how often the loop samples a frame. Sampling on a fixed
// interval instead of every rendered frame trades latency for CPU cost.
const DefaultInterval = 300 * time.Millisecond

// State is the capture loop's position in its lifecycle.
type State int

const (
	// StateIdle: no scan in progress.
	StateIdle State = iota
	// StateAcquiring: waiting for camera permission / stream.
	StateAcquiring
	// StateScanning: periodic frame sampling active.
	StateScanning
	// StateResolved: last run ended with a valid attendance token.
	StateResolved
	// StateFailed: last run ended with a device or decode fault.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateScanning:
		return "scanning"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loop runs one scan attempt at a time over a Device. A Loop is reusable:
// after a run ends in any state, Run may be called again.
type Loop struct {
	device   Device
	decoder  Decoder
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Loop)

// WithInterval overrides the sampling interval.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithTimeout bounds a whole scan attempt. 0 (the default) scans until
// resolved or cancelled.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) { l.timeout = d }
}

func WithLogger(log logging.Logger) Option {
	return func(l *Loop) { l.logger = log }
}

func NewLoop(device Device, decoder Decoder, opts ...Option) *Loop {
	l := &Loop{
		device:   device,
		decoder:  decoder,
		interval: DefaultInterval,
		logger:   logging.NewNopLogger(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State reports the loop's current state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Run drives a single scan attempt to completion and returns the decoded
// token. It blocks until a frame decodes to a typed attendance token, ctx is
// cancelled (or Cancel is called), the optional timeout fires, or the device
// fails. The camera stream is released before Run returns, on every path.
//
// Only one run may be active per Loop; a second concurrent call returns
// ErrorScanInProgress.
func (l *Loop) Run(ctx context.Context) (*qr.AttendanceToken, error) {
	l.mu.Lock()
	if l.state == StateAcquiring || l.state == StateScanning {
		l.mu.Unlock()
		return nil, common.ErrorScanInProgress
	}
	var cancel context.CancelFunc
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	done := make(chan struct{})
	l.cancel, l.done = cancel, done
	l.state = StateAcquiring
	l.mu.Unlock()

	defer close(done)
	defer cancel()

	return l.run(ctx)
}

// Cancel aborts the active run, if any, and returns once the camera stream
// has been released. Cancelling an idle loop is a no-op.
func (l *Loop) Cancel() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Loop) run(ctx context.Context) (*qr.AttendanceToken, error) {
	stream, err := l.device.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled while acquiring; not a device fault.
			l.setState(StateIdle)
			return nil, ctx.Err()
		}
		l.setState(StateFailed)
		return nil, fmt.Errorf("%w: %v", common.ErrorCameraUnavailable, err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			l.logger.Warn(ctx, "closing camera stream", "error", cerr)
		}
	}()

	l.setState(StateScanning)
	l.logger.Info(ctx, "scanning started", "interval", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.setState(StateIdle)
			l.logger.Info(ctx, "scanning stopped", "cause", ctx.Err())
			return nil, ctx.Err()
		case <-ticker.C:
			// Ticks run sequentially in this goroutine; a slow decode delays
			// the next tick instead of overlapping it.
			token, err := l.sample(ctx, stream)
			if err != nil {
				l.setState(StateFailed)
				return nil, err
			}
			if token != nil {
				l.setState(StateResolved)
				metrics.ScansResolved.Inc()
				l.logger.Info(ctx, "scan resolved", "tokenDate", token.Date)
				return token, nil
			}
		}
	}
}

// sample captures and decodes one frame. A (nil, nil) return means the frame
// held no attendance token and sampling should continue.
func (l *Loop) sample(ctx context.Context, stream Stream) (*qr.AttendanceToken, error) {
	frame, err := stream.Frame(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorCameraUnavailable, err)
	}
	metrics.FramesSampled.Inc()

	token, err := l.decoder.DecodeFrame(frame)
	if err != nil {
		reason := missReason(err)
		metrics.DecodeMisses.WithLabelValues(reason).Inc()
		l.logger.Debug(ctx, "frame miss", "reason", reason)
		return nil, nil
	}
	return token, nil
}

func missReason(err error) string {
	switch {
	case errors.Is(err, common.ErrorNoCode):
		return "no_code"
	case errors.Is(err, common.ErrorMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, common.ErrorUnrecognizedType):
		return "unrecognized_type"
	default:
		return "decode_error"
	}
}
