package beacon

import (
	"errors"
	"time"

	"github.com/Tap30/beacon-go/adapters"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export adapter types for convenience
type (
	TransportAdapter = adapters.TransportAdapter
	LoggerAdapter    = adapters.LoggerAdapter
	LogLevel         = adapters.LogLevel
)

// Collector base URLs. The API key and message type are appended to form
// <base>/<api-key>/<message-type>/?<query>.
const (
	ProductionURL       = "http://api.geo.kontagent.net/api/v1/"
	ProductionSecureURL = "https://api.geo.kontagent.net/api/v1/"
	TestServerURL       = "http://test-server.kontagent.com/api/v1/"
)

// SDKVersion is sent under the sdk key on the first message of a client.
const SDKVersion = "go01"

// DefaultStopTimeout bounds how long disposal waits for in-flight beacons.
const DefaultStopTimeout = 15 * time.Second

var (
	// ErrAPIKeyRequired is returned by NewClient when no API key is configured.
	ErrAPIKeyRequired = errors.New("beacon: APIKey is required")

	// ErrClientDisposed is returned when sending through a disposed client.
	ErrClientDisposed = errors.New("beacon: client is disposed")

	// ErrStopTimeout is returned when disposal gives up on beacons whose
	// transport never reported completion.
	ErrStopTimeout = errors.New("beacon: beacons still in flight")
)

// Params maps the collector's short parameter keys to primitive values
// (string or integer). A new map is built for every message.
type Params map[string]any

// ValidationError reports the first parameter of a message that failed validation.
type ValidationError struct {
	MessageType MessageType
	Param       string
	Value       any
	Reason      string
}

// Error returns the human-readable rejection reason.
func (e *ValidationError) Error() string {
	return e.Reason
}

// ClientConfig is set once at construction.
type ClientConfig struct {
	// APIKey identifies the application to the collector. Required.
	APIKey string
	// UseTestServer selects TestServerURL. Takes priority over UseHTTPS.
	UseTestServer bool
	// UseHTTPS selects ProductionSecureURL instead of ProductionURL.
	UseHTTPS bool
	// ValidateParams checks every parameter before a message is sent.
	ValidateParams bool
	// BaseURL overrides the endpoint selection, e.g. for a local collector.
	BaseURL string
	// DisposeTimeout bounds Dispose and DisposeNow. Defaults to DefaultStopTimeout.
	DisposeTimeout time.Duration

	TransportAdapter  TransportAdapter
	LoggerAdapter     LoggerAdapter
	MetricsRegisterer prometheus.Registerer
}

// DispatcherConfig is the resolved configuration of the send pipeline.
type DispatcherConfig struct {
	APIKey         string
	BaseURL        string
	ValidateParams bool
	StopTimeout    time.Duration
}

// baseURL resolves the collector base URL selected by the config flags.
func (c ClientConfig) baseURL() string {
	switch {
	case c.BaseURL != "":
		return c.BaseURL
	case c.UseTestServer:
		return TestServerURL
	case c.UseHTTPS:
		return ProductionSecureURL
	default:
		return ProductionURL
	}
}
