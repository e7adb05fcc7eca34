package model

import "strings"

// Prompt is a canonical prompt template attached to a merchant.
type Prompt struct {
	ID            string            `json:"id"`
	MerchantID    string            `json:"merchantId"`
	Title         string            `json:"title"`
	PromptText    string            `json:"promptText"`
	Type          string            `json:"type"`
	ModelID       string            `json:"modelId"`
	RequestParams map[string]string `json:"requestParams"`
	Deleted       bool              `json:"deleted"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// Render substitutes {{key}} placeholders in the prompt text with the
// corresponding RequestParams values, overridden by the given params.
// Unmatched placeholders are left in place so the caller can see them.
func (p Prompt) Render(params map[string]string) string {
	out := p.PromptText
	// Overrides first so the template defaults cannot shadow them.
	for k, v := range params {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	for k, v := range p.RequestParams {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
