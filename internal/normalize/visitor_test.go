package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitor_GuaranteedFieldsAndExtras(t *testing.T) {
	t.Parallel()

	v := Visitor(map[string]any{
		"visitorId":    "v1",
		"merchantId":   "m1",
		"status":       "ENGAGED",
		"createdAt":    "2021-06-15T10:30:00Z",
		"browserAgent": "Mozilla/5.0",
		"customScore":  float64(7),
	})

	assert.Equal(t, "v1", v.ID)
	assert.Equal(t, "m1", v.MerchantID)
	assert.Equal(t, "engaged", v.Status)
	assert.Equal(t, "2021-06-15T10:30:00.000Z", v.CreatedAt)
	assert.Equal(t, "Mozilla/5.0", v.Extra["browserAgent"])
	assert.Equal(t, float64(7), v.Extra["customScore"])
}

func TestVisitor_NoStatusSignalIsUnknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", Visitor(map[string]any{"id": "v1"}).Status)
}

func TestEngagement(t *testing.T) {
	t.Parallel()

	e := Engagement(map[string]any{
		"conversationId": "e1",
		"merchant_id":    "m1",
		"visitorId":      "v1",
		"channelType":    "whatsapp",
		"startTime":      "03/21/2018 05:03 PM",
		"transcript":     []any{"hi"},
	})

	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "m1", e.MerchantID)
	assert.Equal(t, "v1", e.VisitorID)
	assert.Equal(t, "whatsapp", e.Channel)
	assert.Equal(t, "2018-03-21T17:03:00.000Z", e.StartedAt)
	assert.NotNil(t, e.Extra["transcript"])
}

func TestMerchantUser(t *testing.T) {
	t.Parallel()

	u := MerchantUser(map[string]any{
		"userId":     "u1",
		"merchantId": "m1",
		"username":   "ops@acme.example",
		"userRole":   "admin",
	})

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ops@acme.example", u.Email)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "unknown", u.Status)
}

func TestMerchantAttribute(t *testing.T) {
	t.Parallel()

	a := MerchantAttribute(map[string]any{
		"attributeId":    "at1",
		"merchantId":     "m1",
		"attributeName":  "greeting_delay",
		"attributeValue": "5s",
	})

	assert.Equal(t, "at1", a.ID)
	assert.Equal(t, "greeting_delay", a.Name)
	assert.Equal(t, "5s", a.Value)
	assert.Nil(t, a.Extra)
}
