package normalize

import (
	"strings"

	"github.com/conversehq/merchant-cli/internal/model"
)

// The visitor-side entities are open records: canonical fields are resolved
// and everything else is carried through in Extra untouched.

// Visitor maps a raw upstream record to the canonical visitor shape.
func Visitor(raw map[string]any) model.Visitor {
	consumed := []string{
		"id", "visitorId", "visitor_id",
		"merchantId", "merchant_id",
		"status", "visitorStatus",
		"createdAt", "createdDate", "created_at",
		"updatedAt", "updatedDate", "updated_at",
	}
	return model.Visitor{
		ID:         FirstString(raw, "id", "visitorId", "visitor_id"),
		MerchantID: FirstString(raw, "merchantId", "merchant_id"),
		Status:     openStatus(raw, "status", "visitorStatus"),
		CreatedAt:  FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:  FirstDate(raw, "updatedAt", "updatedDate", "updated_at"),
		Extra:      Extras(raw, consumed...),
	}
}

// Engagement maps a raw upstream record to the canonical engagement shape.
func Engagement(raw map[string]any) model.Engagement {
	consumed := []string{
		"id", "engagementId", "engagement_id", "conversationId",
		"merchantId", "merchant_id",
		"visitorId", "visitor_id",
		"channel", "channelType",
		"status", "engagementStatus",
		"startedAt", "startTime", "started_at",
		"endedAt", "endTime", "ended_at",
	}
	return model.Engagement{
		ID:         FirstString(raw, "id", "engagementId", "engagement_id", "conversationId"),
		MerchantID: FirstString(raw, "merchantId", "merchant_id"),
		VisitorID:  FirstString(raw, "visitorId", "visitor_id"),
		Channel:    FirstString(raw, "channel", "channelType"),
		Status:     openStatus(raw, "status", "engagementStatus"),
		StartedAt:  FirstDate(raw, "startedAt", "startTime", "started_at"),
		EndedAt:    FirstDate(raw, "endedAt", "endTime", "ended_at"),
		Extra:      Extras(raw, consumed...),
	}
}

// MerchantUser maps a raw upstream record to the canonical user shape.
func MerchantUser(raw map[string]any) model.MerchantUser {
	consumed := []string{
		"id", "userId", "user_id",
		"merchantId", "merchant_id",
		"email", "emailAddress", "username",
		"role", "userRole",
		"status", "userStatus",
		"createdAt", "createdDate", "created_at",
		"updatedAt", "updatedDate", "updated_at",
	}
	return model.MerchantUser{
		ID:         FirstString(raw, "id", "userId", "user_id"),
		MerchantID: FirstString(raw, "merchantId", "merchant_id"),
		Email:      FirstString(raw, "email", "emailAddress", "username"),
		Role:       FirstString(raw, "role", "userRole"),
		Status:     openStatus(raw, "status", "userStatus"),
		CreatedAt:  FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:  FirstDate(raw, "updatedAt", "updatedDate", "updated_at"),
		Extra:      Extras(raw, consumed...),
	}
}

// MerchantAttribute maps a raw upstream record to the canonical attribute
// shape.
func MerchantAttribute(raw map[string]any) model.MerchantAttribute {
	consumed := []string{
		"id", "attributeId", "attribute_id",
		"merchantId", "merchant_id",
		"name", "key", "attributeName",
		"value", "attributeValue",
		"status",
		"createdAt", "createdDate", "created_at",
		"updatedAt", "updatedDate", "updated_at",
	}
	return model.MerchantAttribute{
		ID:         FirstString(raw, "id", "attributeId", "attribute_id"),
		MerchantID: FirstString(raw, "merchantId", "merchant_id"),
		Name:       FirstString(raw, "name", "key", "attributeName"),
		Value:      FirstString(raw, "value", "attributeValue"),
		Status:     openStatus(raw, "status"),
		CreatedAt:  FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:  FirstDate(raw, "updatedAt", "updatedDate", "updated_at"),
		Extra:      Extras(raw, consumed...),
	}
}

// openStatus lowercases the free-text status of open entities, defaulting
// to "unknown" when no signal is present.
func openStatus(raw map[string]any, keys ...string) string {
	s := strings.ToLower(FirstString(raw, keys...))
	if s == "" {
		return "unknown"
	}
	return s
}
