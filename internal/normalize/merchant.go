package normalize

import (
	"strings"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Candidate source keys per canonical merchant field, highest priority
// first. The clusters never agreed on a field vocabulary, so every alias
// observed in the wild is listed.
var (
	merchantIDKeys      = []string{"id", "merchantId", "merchant_id", "uuid"}
	merchantNameKeys    = []string{"merchantName", "businessName", "name", "displayName"}
	merchantEmailKeys   = []string{"email", "contactEmail", "emailAddress", "email_address"}
	merchantPhoneKeys   = []string{"phone", "phoneNumber", "contactPhone", "mobile"}
	merchantCreatedKeys = []string{"createdAt", "createdDate", "created_at", "dateCreated", "creationDate"}
	merchantUpdatedKeys = []string{"updatedAt", "updatedDate", "updated_at", "lastModified", "modifiedDate"}
)

// Merchant maps a raw upstream record to the canonical merchant shape.
// Pure: the input map is never mutated.
func Merchant(raw map[string]any, clusterKey string) model.Merchant {
	m := model.Merchant{
		ID:         FirstString(raw, merchantIDKeys...),
		Name:       FirstString(raw, merchantNameKeys...),
		Email:      FirstString(raw, merchantEmailKeys...),
		Phone:      FirstString(raw, merchantPhoneKeys...),
		Address:    FirstString(raw, "address", "addressLine1", "street"),
		City:       FirstString(raw, "city", "town"),
		State:      FirstString(raw, "state", "province", "region"),
		PostalCode: FirstString(raw, "postalCode", "zipCode", "zip", "postcode"),
		Country:    FirstString(raw, "country", "countryCode"),
		Status:     MerchantStatus(raw),
		Cluster:    clusterKey,
		Channels:   merchantChannels(raw),
		CreatedAt:  FirstDate(raw, merchantCreatedKeys...),
		UpdatedAt:  FirstDate(raw, merchantUpdatedKeys...),
	}
	if m.Cluster == "" {
		m.Cluster = FirstString(raw, "cluster", "tenant")
	}
	m.Extra = Extras(raw, consumedMerchantKeys()...)
	return m
}

// MerchantStatus derives the composite status field. A boolean "active"
// signal always wins over free-text status; in the text path "suspend" and
// "inactive" are probed before "active", because "inactive" contains
// "active" as a substring. A status literally named "semi-active" therefore
// classifies as active, a known ambiguity kept for compatibility with the
// upstream behavior. No signal at all resolves to unknown, never a guess.
func MerchantStatus(raw map[string]any) model.MerchantStatus {
	if active, ok := FirstBool(raw, "active", "isActive", "enabled"); ok {
		if active {
			return model.MerchantActive
		}
		return model.MerchantInactive
	}

	status := strings.ToLower(FirstString(raw, "status", "merchantStatus", "state", "accountStatus"))
	switch {
	case status == "":
		return model.MerchantUnknown
	case strings.Contains(status, "suspend"):
		return model.MerchantSuspended
	case strings.Contains(status, "inactive"):
		return model.MerchantInactive
	case strings.Contains(status, "active"):
		return model.MerchantActive
	default:
		return model.MerchantUnknown
	}
}

// channelLabels maps upstream channel flag/code spellings to the
// human-readable descriptors the console displays.
var channelLabels = []struct {
	flags []string
	code  string
	label string
}{
	{[]string{"webEnabled", "webChatEnabled"}, "web", "Web Chat"},
	{[]string{"whatsappEnabled"}, "whatsapp", "WhatsApp"},
	{[]string{"messengerEnabled", "facebookEnabled"}, "messenger", "Facebook Messenger"},
	{[]string{"smsEnabled"}, "sms", "SMS"},
	{[]string{"instagramEnabled"}, "instagram", "Instagram"},
	{[]string{"voiceEnabled"}, "voice", "Voice"},
}

// merchantChannels derives the channel descriptor list. An explicit
// "channels" array wins (elements may be strings or {name|type|channel}
// objects); otherwise per-channel boolean flags are collected in a stable
// order.
func merchantChannels(raw map[string]any) []string {
	if arr, ok := raw["channels"].([]any); ok {
		var out []string
		for _, el := range arr {
			switch v := el.(type) {
			case string:
				out = append(out, channelLabel(v))
			case map[string]any:
				if name := FirstString(v, "name", "type", "channel"); name != "" {
					out = append(out, channelLabel(name))
				}
			}
		}
		return out
	}

	var out []string
	for _, ch := range channelLabels {
		if enabled, ok := FirstBool(raw, ch.flags...); ok && enabled {
			out = append(out, ch.label)
		}
	}
	return out
}

func channelLabel(code string) string {
	folded := strings.ToLower(strings.TrimSpace(code))
	for _, ch := range channelLabels {
		if folded == ch.code {
			return ch.label
		}
	}
	return code
}

func consumedMerchantKeys() []string {
	keys := []string{
		"address", "addressLine1", "street", "city", "town",
		"state", "province", "region", "postalCode", "zipCode", "zip", "postcode",
		"country", "countryCode", "cluster", "tenant", "channels",
		"active", "isActive", "enabled", "status", "merchantStatus", "accountStatus",
	}
	keys = append(keys, merchantIDKeys...)
	keys = append(keys, merchantNameKeys...)
	keys = append(keys, merchantEmailKeys...)
	keys = append(keys, merchantPhoneKeys...)
	keys = append(keys, merchantCreatedKeys...)
	keys = append(keys, merchantUpdatedKeys...)
	for _, ch := range channelLabels {
		keys = append(keys, ch.flags...)
	}
	return keys
}
