package beacon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Tap30/beacon-go/adapters"
)

// Dispatcher runs the send pipeline: it stamps a message, optionally
// validates it, encodes it into a collector URL and hands it to the
// transport. No retries, no batching.
type Dispatcher struct {
	config    DispatcherConfig
	transport TransportAdapter
	logger    LoggerAdapter
	session   *Session
	metrics   *metrics
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	inflight  int
	drained   chan struct{}
	drainOnce sync.Once
}

// NewDispatcher creates a send pipeline for config.
func NewDispatcher(config DispatcherConfig, transport TransportAdapter, session *Session) *Dispatcher {
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}
	if session == nil {
		session = NewSession()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		config:    config,
		transport: transport,
		logger:    adapters.NewDefaultLoggerAdapter(adapters.LogLevelWarn),
		session:   session,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		drained:   make(chan struct{}),
	}
}

// SetLoggerAdapter sets a custom logger adapter
func (d *Dispatcher) SetLoggerAdapter(logger LoggerAdapter) {
	d.logger = logger
}

func (d *Dispatcher) setMetrics(m *metrics) {
	d.metrics = m
}

// Endpoint returns the collector URL prefix for mt, up to the query string.
func (d *Dispatcher) Endpoint(mt MessageType) string {
	return d.config.BaseURL + url.PathEscape(d.config.APIKey) + "/" + string(mt) + "/"
}

// Dispatch sends params as a message of type mt. The caller's map is not
// modified. A validation failure suppresses the send entirely and is returned
// as a *ValidationError.
func (d *Dispatcher) Dispatch(mt MessageType, params Params) (*Beacon, error) {
	if d.isClosed() {
		return nil, ErrClientDisposed
	}

	out := make(Params, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out[ParamTimestamp] = d.now().Unix()
	if !d.session.HasSent() {
		out[ParamSDK] = SDKVersion
	}

	if d.config.ValidateParams {
		if err := ValidateParams(mt, out); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				d.metrics.incRejected(mt, verr.Param)
				d.logger.Warn("Dropping %s message, parameter %s rejected: %s", mt, verr.Param, verr.Reason)
			}
			return nil, err
		}
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClientDisposed
	}
	d.inflight++
	d.mu.Unlock()

	d.session.MarkSent()
	target := d.Endpoint(mt) + "?" + BuildQuery(out)
	b := newBeacon(mt, target, out, func() { d.finish(mt) })
	d.metrics.incSent(mt)
	d.logger.Debug("Sending %s message: %s", mt, target)
	d.transport.Send(d.ctx, target, b.complete)
	return b, nil
}

func (d *Dispatcher) finish(mt MessageType) {
	d.metrics.incCompleted(mt)
	d.mu.Lock()
	d.inflight--
	idle := d.closed && d.inflight == 0
	d.mu.Unlock()
	if idle {
		d.drainOnce.Do(func() { close(d.drained) })
	}
}

// Shutdown rejects further messages and waits for in-flight beacons until
// ctx is done. Beacons still pending at that point are abandoned and the
// returned error wraps ErrStopTimeout.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.markClosed()
	err := d.wait(ctx)
	d.cancel()
	return err
}

// Stop is Shutdown bounded by the configured stop timeout.
func (d *Dispatcher) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.StopTimeout)
	defer cancel()
	return d.Shutdown(ctx)
}

// StopNow rejects further messages, aborts in-flight requests and waits,
// at most the stop timeout, for their transports to report completion.
func (d *Dispatcher) StopNow() error {
	d.markClosed()
	d.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), d.config.StopTimeout)
	defer cancel()
	return d.wait(ctx)
}

// Pending returns the number of beacons handed to the transport that have
// not completed yet.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight
}

func (d *Dispatcher) wait(ctx context.Context) error {
	select {
	case <-d.drained:
		return nil
	case <-ctx.Done():
		n := d.Pending()
		d.logger.Warn("Abandoning %d beacons still in flight", n)
		return fmt.Errorf("%w (%d): %w", ErrStopTimeout, n, ctx.Err())
	}
}

func (d *Dispatcher) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Dispatcher) markClosed() {
	d.mu.Lock()
	d.closed = true
	idle := d.inflight == 0
	d.mu.Unlock()
	if idle {
		d.drainOnce.Do(func() { close(d.drained) })
	}
}
