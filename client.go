package beacon

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tap30/beacon-go/adapters"
)

// Client reports user activity to the collector, one method per message kind.
//
// Every Track method returns as soon as the beacon is handed to the
// transport. The returned *Beacon tracks completion; the error is a
// *ValidationError when ValidateParams is on and a parameter was rejected,
// in which case nothing is sent.
type Client struct {
	config     ClientConfig
	session    *Session
	dispatcher *Dispatcher
	logger     LoggerAdapter
	mu         sync.Mutex
	disposed   bool
}

// NewClient creates a client for one logical session.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	if config.TransportAdapter == nil {
		config.TransportAdapter = adapters.NewNetHTTPAdapter()
	}
	if config.LoggerAdapter == nil {
		config.LoggerAdapter = adapters.NewDefaultLoggerAdapter(adapters.LogLevelWarn)
	}

	m, err := newMetrics(config.MetricsRegisterer)
	if err != nil {
		return nil, fmt.Errorf("beacon: register metrics: %w", err)
	}

	session := NewSession()
	dispatcher := NewDispatcher(DispatcherConfig{
		APIKey:         config.APIKey,
		BaseURL:        config.baseURL(),
		ValidateParams: config.ValidateParams,
		StopTimeout:    config.DisposeTimeout,
	}, config.TransportAdapter, session)
	dispatcher.SetLoggerAdapter(config.LoggerAdapter)
	dispatcher.setMetrics(m)

	config.LoggerAdapter.Debug("Client created for %s", config.baseURL())

	return &Client{
		config:     config,
		session:    session,
		dispatcher: dispatcher,
		logger:     config.LoggerAdapter,
	}, nil
}

// Session returns the state shared by the messages of this client.
func (c *Client) Session() *Session {
	return c.session
}

// Send dispatches a custom parameter map as a message of type mt.
func (c *Client) Send(mt MessageType, params Params) (*Beacon, error) {
	return c.dispatcher.Dispatch(mt, params)
}

// TrackInviteSent reports invites sent by userID to recipients.
func (c *Client) TrackInviteSent(userID string, recipients []string, trackingTag string, opts *SentOptions) (*Beacon, error) {
	return c.trackSent(MessageInviteSent, userID, recipients, trackingTag, opts)
}

// TrackInviteResponse reports a click on an invite.
func (c *Client) TrackInviteResponse(trackingTag string, opts *ResponseOptions) (*Beacon, error) {
	return c.trackResponse(MessageInviteResponse, trackingTag, opts)
}

// TrackNotificationSent reports notifications sent by userID to recipients.
func (c *Client) TrackNotificationSent(userID string, recipients []string, trackingTag string, opts *SentOptions) (*Beacon, error) {
	return c.trackSent(MessageNotificationSent, userID, recipients, trackingTag, opts)
}

// TrackNotificationResponse reports a click on a notification.
func (c *Client) TrackNotificationResponse(trackingTag string, opts *ResponseOptions) (*Beacon, error) {
	return c.trackResponse(MessageNotificationResponse, trackingTag, opts)
}

// TrackNotificationEmailSent reports notification emails sent by userID to recipients.
func (c *Client) TrackNotificationEmailSent(userID string, recipients []string, trackingTag string, opts *SentOptions) (*Beacon, error) {
	return c.trackSent(MessageNotificationEmailSent, userID, recipients, trackingTag, opts)
}

// TrackNotificationEmailResponse reports a click on a notification email.
func (c *Client) TrackNotificationEmailResponse(trackingTag string, opts *ResponseOptions) (*Beacon, error) {
	return c.trackResponse(MessageNotificationEmailResponse, trackingTag, opts)
}

// TrackStreamPost reports a stream post of postType by userID.
func (c *Client) TrackStreamPost(userID, trackingTag, postType string, opts *SentOptions) (*Beacon, error) {
	p := Params{
		ParamUserID:      userID,
		ParamTrackingTag: trackingTag,
		ParamType:        postType,
	}
	opts.apply(p)
	return c.Send(MessageStreamPost, p)
}

// TrackStreamPostResponse reports a click on a stream post.
func (c *Client) TrackStreamPostResponse(trackingTag, postType string, opts *ResponseOptions) (*Beacon, error) {
	p := Params{
		ParamTrackingTag: trackingTag,
		ParamType:        postType,
	}
	opts.apply(p)
	return c.Send(MessageStreamPostResponse, p)
}

// TrackEvent reports a custom event named eventName.
func (c *Client) TrackEvent(userID, eventName string, opts *EventOptions) (*Beacon, error) {
	p := Params{
		ParamUserID:    userID,
		ParamEventName: eventName,
	}
	opts.apply(p)
	return c.Send(MessageEvent, p)
}

// TrackApplicationAdded reports an install by userID.
func (c *Client) TrackApplicationAdded(userID string, opts *ApplicationAddedOptions) (*Beacon, error) {
	p := Params{ParamUserID: userID}
	opts.apply(p)
	return c.Send(MessageApplicationAdded, p)
}

// TrackApplicationRemoved reports an uninstall by userID.
func (c *Client) TrackApplicationRemoved(userID string) (*Beacon, error) {
	return c.Send(MessageApplicationRemoved, Params{ParamUserID: userID})
}

// TrackThirdPartyCommClick reports a click on an ad or partner link.
func (c *Client) TrackThirdPartyCommClick(clickType string, opts *ThirdPartyClickOptions) (*Beacon, error) {
	p := Params{
		ParamInstalled: 0,
		ParamType:      clickType,
	}
	opts.apply(p)
	return c.Send(MessageThirdPartyCommClick, p)
}

// TrackPageRequest reports a page view by userID.
func (c *Client) TrackPageRequest(userID string, opts *PageRequestOptions) (*Beacon, error) {
	p := Params{ParamUserID: userID}
	opts.apply(p)
	return c.Send(MessagePageRequest, p)
}

// TrackUserInformation reports demographic data about userID.
func (c *Client) TrackUserInformation(userID string, opts *UserInformationOptions) (*Beacon, error) {
	p := Params{ParamUserID: userID}
	opts.apply(p)
	return c.Send(MessageUserInformation, p)
}

// TrackGoalCount reports goal counter increments for userID.
func (c *Client) TrackGoalCount(userID string, counts GoalCounts) (*Beacon, error) {
	p := Params{ParamUserID: userID}
	counts.apply(p)
	return c.Send(MessageGoalCount, p)
}

// TrackRevenue reports revenue of value (in cents) earned from userID.
func (c *Client) TrackRevenue(userID string, value int64, opts *RevenueOptions) (*Beacon, error) {
	p := Params{
		ParamUserID: userID,
		ParamValue:  value,
	}
	opts.apply(p)
	return c.Send(MessageRevenue, p)
}

func (c *Client) trackSent(mt MessageType, userID string, recipients []string, trackingTag string, opts *SentOptions) (*Beacon, error) {
	p := Params{
		ParamUserID:      userID,
		ParamRecipients:  joinRecipients(recipients),
		ParamTrackingTag: trackingTag,
	}
	opts.apply(p)
	return c.Send(mt, p)
}

func (c *Client) trackResponse(mt MessageType, trackingTag string, opts *ResponseOptions) (*Beacon, error) {
	p := Params{ParamTrackingTag: trackingTag}
	opts.apply(p)
	return c.Send(mt, p)
}

// Dispose stops the client and waits for in-flight beacons to finish, at
// most DisposeTimeout.
func (c *Client) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}

	c.logger.Info("Disposing client")
	c.disposed = true
	return c.dispatcher.Stop()
}

// DisposeContext stops the client and waits for in-flight beacons until ctx
// is done. The error wraps ErrStopTimeout when beacons were abandoned.
func (c *Client) DisposeContext(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}

	c.logger.Info("Disposing client")
	c.disposed = true
	return c.dispatcher.Shutdown(ctx)
}

// DisposeNow stops the client and aborts in-flight beacons. Transports that
// ignore cancellation are waited for at most DisposeTimeout.
func (c *Client) DisposeNow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}

	c.logger.Info("Disposing client without waiting for beacons")
	c.disposed = true
	return c.dispatcher.StopNow()
}
