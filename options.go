package beacon

import "strings"

// Zero values in option structs are left out of the message.

// Subtypes are the three free-form classification levels most messages carry.
type Subtypes struct {
	Subtype1 string
	Subtype2 string
	Subtype3 string
}

func (s Subtypes) apply(p Params) {
	setString(p, ParamSubtype1, s.Subtype1)
	setString(p, ParamSubtype2, s.Subtype2)
	setString(p, ParamSubtype3, s.Subtype3)
}

// SentOptions extend invite, notification, notification email and stream post messages.
type SentOptions struct {
	Subtypes
	// Data is free-form and sent base64 encoded.
	Data string
}

func (o *SentOptions) apply(p Params) {
	if o == nil {
		return
	}
	o.Subtypes.apply(p)
	setData(p, o.Data)
}

// ResponseOptions extend the response counterparts of SentOptions messages.
type ResponseOptions struct {
	Subtypes
	// RecipientUserID is the user who responded.
	RecipientUserID string
	// Installed reports that the response led to an install.
	Installed bool
	Data      string
}

func (o *ResponseOptions) apply(p Params) {
	p[ParamInstalled] = 0
	if o == nil {
		return
	}
	if o.Installed {
		p[ParamInstalled] = 1
	}
	setString(p, ParamRecipients, o.RecipientUserID)
	o.Subtypes.apply(p)
	setData(p, o.Data)
}

// GoalCounts are the four application-defined counters.
type GoalCounts struct {
	GoalCount1 int
	GoalCount2 int
	GoalCount3 int
	GoalCount4 int
}

func (g GoalCounts) apply(p Params) {
	setInt(p, ParamGoalCount1, int64(g.GoalCount1))
	setInt(p, ParamGoalCount2, int64(g.GoalCount2))
	setInt(p, ParamGoalCount3, int64(g.GoalCount3))
	setInt(p, ParamGoalCount4, int64(g.GoalCount4))
}

// EventOptions extend custom events.
type EventOptions struct {
	Subtypes
	GoalCounts
	Value int64
	Level int
	Data  string
}

func (o *EventOptions) apply(p Params) {
	if o == nil {
		return
	}
	setInt(p, ParamValue, o.Value)
	setInt(p, ParamLevel, int64(o.Level))
	o.Subtypes.apply(p)
	o.GoalCounts.apply(p)
	setData(p, o.Data)
}

// ApplicationAddedOptions tie an install to the message that caused it.
type ApplicationAddedOptions struct {
	UniqueTrackingTag      string
	ShortUniqueTrackingTag string
	Data                   string
}

func (o *ApplicationAddedOptions) apply(p Params) {
	if o == nil {
		return
	}
	setString(p, ParamTrackingTag, o.UniqueTrackingTag)
	setString(p, ParamShortTrackingTag, o.ShortUniqueTrackingTag)
	setData(p, o.Data)
}

// ThirdPartyClickOptions extend third-party communication clicks.
type ThirdPartyClickOptions struct {
	ShortUniqueTrackingTag string
	UserID                 string
	Data                   string
}

func (o *ThirdPartyClickOptions) apply(p Params) {
	if o == nil {
		return
	}
	setString(p, ParamShortTrackingTag, o.ShortUniqueTrackingTag)
	setString(p, ParamUserID, o.UserID)
	setData(p, o.Data)
}

// PageRequestOptions extend page requests.
type PageRequestOptions struct {
	IPAddress string
	// PageAddress is sent under u, which page requests do not use for a tracking tag.
	PageAddress string
}

func (o *PageRequestOptions) apply(p Params) {
	if o == nil {
		return
	}
	setString(p, ParamIPAddress, o.IPAddress)
	setString(p, ParamTrackingTag, o.PageAddress)
}

// UserInformationOptions carry demographic data.
type UserInformationOptions struct {
	BirthYear int
	// Gender is one of m, f or u.
	Gender string
	// Country is an ISO 3166 alpha-2 code in upper case.
	Country     string
	FriendCount int
}

func (o *UserInformationOptions) apply(p Params) {
	if o == nil {
		return
	}
	setInt(p, ParamBirthYear, int64(o.BirthYear))
	setString(p, ParamGender, o.Gender)
	setString(p, ParamCountry, o.Country)
	setInt(p, ParamFriendCount, int64(o.FriendCount))
}

// RevenueOptions extend revenue messages.
type RevenueOptions struct {
	Subtypes
	// Type is one of direct, indirect, advertisement, credits or other.
	Type string
	Data string
}

func (o *RevenueOptions) apply(p Params) {
	if o == nil {
		return
	}
	setString(p, ParamType, o.Type)
	o.Subtypes.apply(p)
	setData(p, o.Data)
}

func setString(p Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func setInt(p Params, key string, value int64) {
	if value != 0 {
		p[key] = value
	}
}

func setData(p Params, data string) {
	if data != "" {
		p[ParamData] = Base64Encode(data)
	}
}

// joinRecipients renders recipient ids as the comma separated list r expects.
func joinRecipients(ids []string) string {
	return strings.Join(ids, ",")
}
