package normalize

import "github.com/conversehq/merchant-cli/internal/model"

// Prompt maps a raw upstream record to the canonical prompt shape.
// requestParams may arrive as an object or a JSON-encoded string; both
// normalize to a string map usable for template substitution.
func Prompt(raw map[string]any) model.Prompt {
	params := StringMap(raw["requestParams"])
	if params == nil {
		params = StringMap(raw["request_params"])
	}
	if params == nil {
		params = map[string]string{}
	}

	deleted, _ := FirstBool(raw, "deleted", "isDeleted", "softDeleted")

	return model.Prompt{
		ID:            FirstString(raw, "id", "promptId", "prompt_id"),
		MerchantID:    FirstString(raw, "merchantId", "merchant_id"),
		Title:         FirstString(raw, "title", "promptTitle", "name"),
		PromptText:    FirstString(raw, "promptText", "prompt", "text", "body"),
		Type:          FirstString(raw, "type", "promptType", "category"),
		ModelID:       FirstString(raw, "modelId", "model", "llmModel"),
		RequestParams: params,
		Deleted:       deleted,
		CreatedAt:     FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:     FirstDate(raw, "updatedAt", "updatedDate", "updated_at"),
	}
}
