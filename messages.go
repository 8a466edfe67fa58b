package beacon

import "fmt"

// MessageType is the 3-character tag naming the schema of a message.
type MessageType string

const (
	MessageInviteSent                MessageType = "ins"
	MessageInviteResponse            MessageType = "inr"
	MessageNotificationSent          MessageType = "nts"
	MessageNotificationResponse      MessageType = "ntr"
	MessageNotificationEmailSent     MessageType = "nes"
	MessageNotificationEmailResponse MessageType = "nei"
	MessageStreamPost                MessageType = "pst"
	MessageStreamPostResponse        MessageType = "psr"
	MessageEvent                     MessageType = "evt"
	MessageApplicationAdded          MessageType = "apa"
	MessageApplicationRemoved        MessageType = "apr"
	MessageThirdPartyCommClick       MessageType = "ucc"
	MessagePageRequest               MessageType = "pgr"
	MessageUserInformation           MessageType = "cpu"
	MessageGoalCount                 MessageType = "gci"
	MessageRevenue                   MessageType = "mtu"
)

var messageTypes = []MessageType{
	MessageInviteSent,
	MessageInviteResponse,
	MessageNotificationSent,
	MessageNotificationResponse,
	MessageNotificationEmailSent,
	MessageNotificationEmailResponse,
	MessageStreamPost,
	MessageStreamPostResponse,
	MessageEvent,
	MessageApplicationAdded,
	MessageApplicationRemoved,
	MessageThirdPartyCommClick,
	MessagePageRequest,
	MessageUserInformation,
	MessageGoalCount,
	MessageRevenue,
}

// MessageTypes returns every message type the collector accepts.
func MessageTypes() []MessageType {
	out := make([]MessageType, len(messageTypes))
	copy(out, messageTypes)
	return out
}

// ParseMessageType returns the MessageType for tag.
func ParseMessageType(tag string) (MessageType, error) {
	for _, mt := range messageTypes {
		if string(mt) == tag {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown message type %q", tag)
}

// isSent reports whether mt carries a list of recipients.
func (mt MessageType) isSent() bool {
	switch mt {
	case MessageInviteSent, MessageNotificationEmailSent, MessageNotificationSent:
		return true
	}
	return false
}

// isResponse reports whether mt carries a single responding recipient.
func (mt MessageType) isResponse() bool {
	switch mt {
	case MessageInviteResponse, MessageStreamPostResponse, MessageNotificationEmailResponse, MessageNotificationResponse:
		return true
	}
	return false
}

// Parameter keys understood by the collector.
const (
	ParamUserID           = "s"
	ParamRecipients       = "r"
	ParamTrackingTag      = "u"
	ParamShortTrackingTag = "su"
	ParamInstalled        = "i"
	ParamEventName        = "n"
	ParamSubtype1         = "st1"
	ParamSubtype2         = "st2"
	ParamSubtype3         = "st3"
	ParamBirthYear        = "b"
	ParamGender           = "g"
	ParamCountry          = "lc"
	ParamFriendCount      = "f"
	ParamGoalCount1       = "gc1"
	ParamGoalCount2       = "gc2"
	ParamGoalCount3       = "gc3"
	ParamGoalCount4       = "gc4"
	ParamValue            = "v"
	ParamLevel            = "l"
	ParamIPAddress        = "ip"
	ParamType             = "tu"
	ParamData             = "data"
	ParamSDK              = "sdk"
	ParamLP               = "lp"
	ParamLS               = "ls"
	ParamTimestamp        = "ts"
)
