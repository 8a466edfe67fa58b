package beacon

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Tap30/beacon-go/adapters"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T, validate bool) (*Client, *mockTransport) {
	t.Helper()
	transport := &mockTransport{}
	client, err := NewClient(ClientConfig{
		APIKey:           "test-key",
		UseTestServer:    true,
		ValidateParams:   validate,
		TransportAdapter: transport,
		LoggerAdapter:    adapters.NewNoOpLoggerAdapter(),
	})
	require.NoError(t, err)
	client.dispatcher.now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(func() { client.Dispose() })
	return client, transport
}

func TestClient_ConfigValidation(t *testing.T) {
	t.Run("should return error if APIKey is missing", func(t *testing.T) {
		_, err := NewClient(ClientConfig{})
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("should default adapters", func(t *testing.T) {
		client, err := NewClient(ClientConfig{APIKey: "k"})
		require.NoError(t, err)
		defer client.Dispose()
		assert.IsType(t, &adapters.NetHTTPAdapter{}, client.config.TransportAdapter)
		assert.IsType(t, &adapters.ZerologLoggerAdapter{}, client.config.LoggerAdapter)
	})
}

func TestClient_EndpointSelection(t *testing.T) {
	tests := []struct {
		name   string
		config ClientConfig
		want   string
	}{
		{"plain production", ClientConfig{}, ProductionURL},
		{"https production", ClientConfig{UseHTTPS: true}, ProductionSecureURL},
		{"test server", ClientConfig{UseTestServer: true}, TestServerURL},
		{"test server wins over https", ClientConfig{UseTestServer: true, UseHTTPS: true}, TestServerURL},
		{"explicit base url", ClientConfig{BaseURL: "http://localhost:8080/api/v1/", UseHTTPS: true}, "http://localhost:8080/api/v1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.APIKey = "k"
			tt.config.TransportAdapter = adapters.NewNoOpTransportAdapter()
			tt.config.LoggerAdapter = adapters.NewNoOpLoggerAdapter()
			client, err := NewClient(tt.config)
			require.NoError(t, err)
			defer client.Dispose()

			b, err := client.TrackApplicationRemoved("1")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(b.URL, tt.want+"k/apr/?"), b.URL)
		})
	}
}

func TestClient_TrackRevenue(t *testing.T) {
	client, transport := createTestClient(t, true)

	b, err := client.TrackRevenue("555", 1000, &RevenueOptions{Type: "direct"})
	require.NoError(t, err)

	assert.Equal(t, MessageRevenue, b.MessageType)
	assert.Equal(t, Params{
		"s":   "555",
		"v":   int64(1000),
		"tu":  "direct",
		"ts":  int64(1700000000),
		"sdk": SDKVersion,
	}, b.Params)
	assert.Equal(t, TestServerURL+"test-key/mtu/?s=555&sdk=go01&ts=1700000000&tu=direct&v=1000", transport.sent()[0])

	b, err = client.TrackRevenue("555", 1000, &RevenueOptions{Type: "direct"})
	require.NoError(t, err)
	assert.NotContains(t, b.Params, ParamSDK)
	assert.Contains(t, b.URL, "s=555&ts=1700000000&tu=direct&v=1000")
}

func TestClient_TrackEventRejectsGoalCount(t *testing.T) {
	client, transport := createTestClient(t, true)

	b, err := client.TrackEvent("1", "purchase", &EventOptions{
		GoalCounts: GoalCounts{GoalCount1: 20000},
	})
	assert.Nil(t, b)
	assert.EqualError(t, err, "Invalid goal count value.")
	assert.Empty(t, transport.sent())
}

func TestClient_MessageParams(t *testing.T) {
	const tag = "a1b2c3d4e5f60718"
	const shortTag = "a1b2c3d4"
	subtypes := Subtypes{Subtype1: "a", Subtype2: "b", Subtype3: "c"}

	tests := []struct {
		name string
		mt   MessageType
		send func(c *Client) (*Beacon, error)
		want Params
	}{
		{"invite sent", MessageInviteSent, func(c *Client) (*Beacon, error) {
			return c.TrackInviteSent("1", []string{"2", "3"}, tag, &SentOptions{Subtypes: subtypes, Data: "hi"})
		}, Params{"s": "1", "r": "2,3", "u": tag, "st1": "a", "st2": "b", "st3": "c", "data": "aGk="}},
		{"invite response", MessageInviteResponse, func(c *Client) (*Beacon, error) {
			return c.TrackInviteResponse(tag, &ResponseOptions{RecipientUserID: "2", Installed: true})
		}, Params{"u": tag, "r": "2", "i": 1}},
		{"invite response without options", MessageInviteResponse, func(c *Client) (*Beacon, error) {
			return c.TrackInviteResponse(tag, nil)
		}, Params{"u": tag, "i": 0}},
		{"notification sent", MessageNotificationSent, func(c *Client) (*Beacon, error) {
			return c.TrackNotificationSent("1", []string{"2"}, tag, nil)
		}, Params{"s": "1", "r": "2", "u": tag}},
		{"notification response", MessageNotificationResponse, func(c *Client) (*Beacon, error) {
			return c.TrackNotificationResponse(tag, &ResponseOptions{Subtypes: Subtypes{Subtype1: "x"}})
		}, Params{"u": tag, "i": 0, "st1": "x"}},
		{"notification email sent", MessageNotificationEmailSent, func(c *Client) (*Beacon, error) {
			return c.TrackNotificationEmailSent("1", []string{"2", "3"}, tag, nil)
		}, Params{"s": "1", "r": "2,3", "u": tag}},
		{"notification email response", MessageNotificationEmailResponse, func(c *Client) (*Beacon, error) {
			return c.TrackNotificationEmailResponse(tag, &ResponseOptions{RecipientUserID: "3"})
		}, Params{"u": tag, "i": 0, "r": "3"}},
		{"stream post", MessageStreamPost, func(c *Client) (*Beacon, error) {
			return c.TrackStreamPost("1", tag, "feedpub", nil)
		}, Params{"s": "1", "u": tag, "tu": "feedpub"}},
		{"stream post response", MessageStreamPostResponse, func(c *Client) (*Beacon, error) {
			return c.TrackStreamPostResponse(tag, "stream", &ResponseOptions{RecipientUserID: "2"})
		}, Params{"u": tag, "tu": "stream", "i": 0, "r": "2"}},
		{"event", MessageEvent, func(c *Client) (*Beacon, error) {
			return c.TrackEvent("1", "buy", &EventOptions{Value: -5, Level: 3, GoalCounts: GoalCounts{GoalCount2: 10}, Subtypes: Subtypes{Subtype1: "shop"}})
		}, Params{"s": "1", "n": "buy", "v": int64(-5), "l": int64(3), "gc2": int64(10), "st1": "shop"}},
		{"application added", MessageApplicationAdded, func(c *Client) (*Beacon, error) {
			return c.TrackApplicationAdded("1", &ApplicationAddedOptions{UniqueTrackingTag: tag, ShortUniqueTrackingTag: shortTag})
		}, Params{"s": "1", "u": tag, "su": shortTag}},
		{"application removed", MessageApplicationRemoved, func(c *Client) (*Beacon, error) {
			return c.TrackApplicationRemoved("1")
		}, Params{"s": "1"}},
		{"third party click", MessageThirdPartyCommClick, func(c *Client) (*Beacon, error) {
			return c.TrackThirdPartyCommClick("ad", &ThirdPartyClickOptions{ShortUniqueTrackingTag: shortTag, UserID: "1"})
		}, Params{"i": 0, "tu": "ad", "su": shortTag, "s": "1"}},
		{"page request", MessagePageRequest, func(c *Client) (*Beacon, error) {
			return c.TrackPageRequest("1", &PageRequestOptions{IPAddress: "10.0.0.1", PageAddress: "/home/index.html"})
		}, Params{"s": "1", "ip": "10.0.0.1", "u": "/home/index.html"}},
		{"user information", MessageUserInformation, func(c *Client) (*Beacon, error) {
			return c.TrackUserInformation("1", &UserInformationOptions{BirthYear: 1985, Gender: "f", Country: "US", FriendCount: 12})
		}, Params{"s": "1", "b": int64(1985), "g": "f", "lc": "US", "f": int64(12)}},
		{"goal count", MessageGoalCount, func(c *Client) (*Beacon, error) {
			return c.TrackGoalCount("1", GoalCounts{GoalCount1: 1, GoalCount4: -4})
		}, Params{"s": "1", "gc1": int64(1), "gc4": int64(-4)}},
		{"revenue", MessageRevenue, func(c *Client) (*Beacon, error) {
			return c.TrackRevenue("1", 99, nil)
		}, Params{"s": "1", "v": int64(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := createTestClient(t, true)

			b, err := tt.send(client)
			require.NoError(t, err)
			assert.Equal(t, tt.mt, b.MessageType)

			want := Params{"ts": int64(1700000000), "sdk": SDKVersion}
			for k, v := range tt.want {
				want[k] = v
			}
			assert.Equal(t, want, b.Params)

			parsed, err := url.Parse(b.URL)
			require.NoError(t, err)
			assert.Equal(t, "/api/v1/test-key/"+string(tt.mt)+"/", parsed.Path)
		})
	}
}

func TestClient_DataIsBase64(t *testing.T) {
	client, _ := createTestClient(t, true)

	b, err := client.TrackApplicationAdded("1", &ApplicationAddedOptions{Data: `{"item":"sword"}`})
	require.NoError(t, err)
	assert.Equal(t, "eyJpdGVtIjoic3dvcmQifQ==", b.Params[ParamData])

	parsed, err := url.Parse(b.URL)
	require.NoError(t, err)
	assert.Equal(t, "eyJpdGVtIjoic3dvcmQifQ==", parsed.Query().Get("data"))
}

func TestClient_ValidationErrors(t *testing.T) {
	client, transport := createTestClient(t, true)

	_, err := client.TrackInviteSent("1", nil, "a1b2c3d4e5f60718", nil)
	assert.EqualError(t, err, "Invalid recipient user ids.")

	_, err = client.TrackApplicationAdded("1", &ApplicationAddedOptions{UniqueTrackingTag: "nope"})
	assert.EqualError(t, err, "Invalid unique tracking tag.")

	_, err = client.TrackRevenue("1", 10, &RevenueOptions{Type: "feedpub"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ParamType, verr.Param)
	assert.Equal(t, MessageRevenue, verr.MessageType)

	assert.Empty(t, transport.sent())
}

func TestClient_Send(t *testing.T) {
	client, transport := createTestClient(t, true)

	_, err := client.Send(MessageEvent, Params{"s": "1", "n": "custom", "lp": "landing"})
	require.NoError(t, err)
	assert.Contains(t, transport.sent()[0], "lp=landing")
}

func TestClient_Dispose(t *testing.T) {
	client, _ := createTestClient(t, false)

	require.NoError(t, client.Dispose())
	require.NoError(t, client.Dispose())

	_, err := client.TrackApplicationRemoved("1")
	assert.ErrorIs(t, err, ErrClientDisposed)
}

func TestClient_DisposeNow(t *testing.T) {
	transport := &mockTransport{async: true, release: make(chan struct{})}
	client, err := NewClient(ClientConfig{
		APIKey:           "k",
		TransportAdapter: transport,
		LoggerAdapter:    adapters.NewNoOpLoggerAdapter(),
	})
	require.NoError(t, err)

	b, err := client.TrackApplicationRemoved("1")
	require.NoError(t, err)

	require.NoError(t, client.DisposeNow())
	<-b.Done()
	require.NoError(t, client.DisposeNow())
	require.NoError(t, client.Dispose())
}

func TestClient_DisposeWithSilentTransport(t *testing.T) {
	newClient := func(t *testing.T) *Client {
		t.Helper()
		client, err := NewClient(ClientConfig{
			APIKey:           "k",
			DisposeTimeout:   50 * time.Millisecond,
			TransportAdapter: &silentTransport{},
			LoggerAdapter:    adapters.NewNoOpLoggerAdapter(),
		})
		require.NoError(t, err)
		_, err = client.TrackApplicationRemoved("1")
		require.NoError(t, err)
		return client
	}

	t.Run("should bound Dispose", func(t *testing.T) {
		assert.ErrorIs(t, newClient(t).Dispose(), ErrStopTimeout)
	})

	t.Run("should bound DisposeNow", func(t *testing.T) {
		assert.ErrorIs(t, newClient(t).DisposeNow(), ErrStopTimeout)
	})

	t.Run("should honor the DisposeContext deadline", func(t *testing.T) {
		client := newClient(t)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := client.DisposeContext(ctx)
		assert.ErrorIs(t, err, ErrStopTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NoError(t, client.DisposeContext(context.Background()))
	})
}

func TestClient_MetricsRegistrationConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_messages_sent_total",
		Help: "unrelated gauge",
	}))

	var client *Client
	var err error
	require.NotPanics(t, func() {
		client, err = NewClient(ClientConfig{
			APIKey:            "k",
			TransportAdapter:  &mockTransport{},
			LoggerAdapter:     adapters.NewNoOpLoggerAdapter(),
			MetricsRegisterer: reg,
		})
	})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "register metrics")
}

func TestClient_Session(t *testing.T) {
	client, _ := createTestClient(t, false)
	assert.False(t, client.Session().HasSent())

	_, err := client.TrackApplicationRemoved("1")
	require.NoError(t, err)
	assert.True(t, client.Session().HasSent())
}
