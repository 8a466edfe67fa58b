// Package collector implements a local stand-in for the analytics collector.
// It accepts beacons on the same URL scheme, decodes and checks them, and
// answers with a transparent pixel.
package collector

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	beacon "github.com/Tap30/beacon-go"
)

// pixel is a 1x1 transparent GIF.
var pixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// defaultHistory caps the number of messages kept in memory.
const defaultHistory = 1000

// Message is one beacon as seen by the collector.
type Message struct {
	ReceivedAt  time.Time
	APIKey      string
	MessageType beacon.MessageType
	Params      map[string]string
	// Data is the decoded data parameter, if any.
	Data string
	// Rejection is the validator's reason when Validate is on and a parameter failed.
	Rejection string
}

// Options configure a Collector.
type Options struct {
	// Validate checks every received parameter with the SDK validator.
	Validate bool
	// History is the number of messages kept; defaults to 1000.
	History int
}

// Collector records beacons it receives.
type Collector struct {
	logger   zerolog.Logger
	opts     Options
	mu       sync.Mutex
	messages []Message
}

// New creates a collector logging through logger.
func New(logger zerolog.Logger, opts Options) *Collector {
	if opts.History <= 0 {
		opts.History = defaultHistory
	}
	return &Collector{
		logger: logger.With().Str("component", "collector").Logger(),
		opts:   opts,
	}
}

// Routes returns the collector HTTP handler.
func (c *Collector) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/v1/{apiKey}/{messageType}/", c.handleBeacon)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Messages returns the received messages, oldest first.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Collector) handleBeacon(w http.ResponseWriter, r *http.Request) {
	mt, err := beacon.ParseMessageType(chi.URLParam(r, "messageType"))
	if err != nil {
		c.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("unknown message type")
		http.NotFound(w, r)
		return
	}

	msg := Message{
		ReceivedAt:  time.Now(),
		APIKey:      chi.URLParam(r, "apiKey"),
		MessageType: mt,
		Params:      make(map[string]string),
	}
	params := make(beacon.Params)
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		msg.Params[key] = values[0]
		params[key] = values[0]
	}

	if raw, ok := msg.Params[beacon.ParamData]; ok {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			c.logger.Warn().Err(err).Str("message_type", string(mt)).Msg("undecodable data parameter")
		} else {
			msg.Data = string(decoded)
		}
	}

	if c.opts.Validate {
		if err := beacon.ValidateParams(mt, params); err != nil {
			msg.Rejection = err.Error()
		}
	}

	c.record(msg)

	event := c.logger.Info()
	if msg.Rejection != "" {
		event = c.logger.Warn().Str("rejection", msg.Rejection)
	}
	event.
		Str("message_type", string(mt)).
		Str("api_key", msg.APIKey).
		Interface("params", msg.Params).
		Msg("beacon received")

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pixel)
}

func (c *Collector) record(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	if over := len(c.messages) - c.opts.History; over > 0 {
		c.messages = append([]Message(nil), c.messages[over:]...)
	}
}
