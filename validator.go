package beacon

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	recipientListPattern = regexp.MustCompile(`^[0-9]+(,[0-9]+)*$`)
	decimalPattern       = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	trackingTagPattern   = regexp.MustCompile(`^[A-Fa-f0-9]{16}$`)
	shortTagPattern      = regexp.MustCompile(`^[A-Fa-f0-9]{8}$`)
	namePattern          = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,32}$`)
	countryPattern       = regexp.MustCompile(`^[A-Z]{2}$`)
	ipPattern            = regexp.MustCompile(`^[0-9]{1,3}(\.[0-9]{1,3}){3}(\.[0-9]{1,3})?$`)
)

var (
	revenueTypes    = []string{"direct", "indirect", "advertisement", "credits", "other"}
	streamPostTypes = []string{"feedpub", "stream", "feedstory", "multifeedstory", "dashboard_activity", "dashboard_globalnews"}
	clickTypes      = []string{"ad", "partner"}
)

// paramRule accepts or rejects a value for one parameter key.
type paramRule struct {
	reason string
	valid  func(mt MessageType, value any) bool
}

var paramRules = map[string]paramRule{
	ParamUserID: {"Invalid user id.", func(_ MessageType, v any) bool {
		return isNumeric(v)
	}},
	ParamRecipients: {"Invalid recipient user ids.", validRecipients},
	ParamTrackingTag: {"Invalid unique tracking tag.", func(mt MessageType, v any) bool {
		// page requests reuse u for the page address
		if mt == MessagePageRequest {
			return true
		}
		return matches(trackingTagPattern, v)
	}},
	ParamShortTrackingTag: {"Invalid short unique tracking tag.", func(_ MessageType, v any) bool {
		return matches(shortTagPattern, v)
	}},
	ParamInstalled: {"Invalid install flag.", func(_ MessageType, v any) bool {
		s, ok := stringValue(v)
		return ok && (s == "0" || s == "1")
	}},
	ParamEventName: {"Invalid event name.", func(_ MessageType, v any) bool {
		return matches(namePattern, v)
	}},
	ParamSubtype1: {"Invalid subtype1.", validSubtype},
	ParamSubtype2: {"Invalid subtype2.", validSubtype},
	ParamSubtype3: {"Invalid subtype3.", validSubtype},
	ParamBirthYear: {"Invalid birth year.", func(_ MessageType, v any) bool {
		n, ok := numericValue(v)
		return ok && n > 1900 && n < 2011
	}},
	ParamGender: {"Invalid gender.", func(_ MessageType, v any) bool {
		s, ok := stringValue(v)
		return ok && (s == "m" || s == "f" || s == "u")
	}},
	ParamCountry: {"Invalid country value.", func(_ MessageType, v any) bool {
		return matches(countryPattern, v)
	}},
	ParamFriendCount: {"Invalid friend count.", nonNegative},
	ParamGoalCount1:  {"Invalid goal count value.", validGoalCount},
	ParamGoalCount2:  {"Invalid goal count value.", validGoalCount},
	ParamGoalCount3:  {"Invalid goal count value.", validGoalCount},
	ParamGoalCount4:  {"Invalid goal count value.", validGoalCount},
	ParamValue: {"Invalid value.", func(_ MessageType, v any) bool {
		return isNumeric(v)
	}},
	ParamLevel: {"Invalid level value.", nonNegative},
	ParamIPAddress: {"Invalid ip address value.", func(_ MessageType, v any) bool {
		return matches(ipPattern, v)
	}},
	ParamType:      {"Invalid type value.", validType},
	ParamData:      {"", always},
	ParamSDK:       {"", always},
	ParamLP:        {"", always},
	ParamLS:        {"", always},
	ParamTimestamp: {"Invalid timestamp.", func(_ MessageType, v any) bool {
		return isNumeric(v)
	}},
}

// Validate checks value against the rule for param within a message of type mt.
// It returns nil when the value is acceptable and a *ValidationError otherwise.
// Keys without a rule are rejected.
func Validate(mt MessageType, param string, value any) error {
	rule, ok := paramRules[param]
	if !ok {
		return &ValidationError{
			MessageType: mt,
			Param:       param,
			Value:       value,
			Reason:      fmt.Sprintf("Unknown parameter %q.", param),
		}
	}
	if rule.valid(mt, value) {
		return nil
	}
	return &ValidationError{
		MessageType: mt,
		Param:       param,
		Value:       value,
		Reason:      rule.reason,
	}
}

// ValidateParams checks every key of params in key order and returns the
// first rejection.
func ValidateParams(mt MessageType, params Params) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := Validate(mt, k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func always(MessageType, any) bool { return true }

func validRecipients(mt MessageType, v any) bool {
	switch {
	case mt.isSent():
		return matches(recipientListPattern, v)
	case mt.isResponse():
		s, ok := stringValue(v)
		return ok && !strings.Contains(s, ",") && isNumeric(v)
	default:
		return false
	}
}

func validSubtype(_ MessageType, v any) bool {
	return matches(namePattern, v)
}

func nonNegative(_ MessageType, v any) bool {
	n, ok := numericValue(v)
	return ok && n >= 0
}

func validGoalCount(_ MessageType, v any) bool {
	n, ok := numericValue(v)
	return ok && n > -16384 && n < 16384
}

func validType(mt MessageType, v any) bool {
	s, ok := stringValue(v)
	if !ok {
		return false
	}
	switch mt {
	case MessageRevenue:
		return contains(revenueTypes, s)
	case MessageStreamPost, MessageStreamPostResponse:
		return contains(streamPostTypes, s)
	case MessageThirdPartyCommClick:
		return contains(clickTypes, s)
	default:
		return false
	}
}

func contains(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func matches(re *regexp.Regexp, v any) bool {
	s, ok := stringValue(v)
	return ok && re.MatchString(s)
}

// stringValue renders strings and integers; any other type is rejected.
func stringValue(v any) (string, bool) {
	switch v.(type) {
	case string, int, int32, int64, uint, uint32, uint64:
		return formatValue(v), true
	default:
		return "", false
	}
}

func isNumeric(v any) bool {
	_, ok := numericValue(v)
	return ok
}

// numericValue interprets numbers and plain decimal strings. Strings are not
// trimmed; signs other than a leading minus, exponents and hex are rejected.
func numericValue(v any) (float64, bool) {
	var n float64
	switch value := v.(type) {
	case int:
		n = float64(value)
	case int32:
		n = float64(value)
	case int64:
		n = float64(value)
	case uint:
		n = float64(value)
	case uint32:
		n = float64(value)
	case uint64:
		n = float64(value)
	case float32:
		n = float64(value)
	case float64:
		n = value
	case string:
		if !decimalPattern.MatchString(value) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
