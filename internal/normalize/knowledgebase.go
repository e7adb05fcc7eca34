package normalize

import (
	"strings"

	"github.com/conversehq/merchant-cli/internal/model"
)

// KnowledgeBase maps a raw upstream record to the canonical knowledge base
// shape. The training status free-text is lowercased but otherwise kept:
// clusters report it as "TRAINING", "Trained", "ready", "failed" and more,
// and the console displays it rather than branching on it.
func KnowledgeBase(raw map[string]any) model.KnowledgeBase {
	return model.KnowledgeBase{
		ID:          FirstString(raw, "id", "knowledgeBaseId", "kbId"),
		Name:        FirstString(raw, "name", "knowledgeBaseName", "title"),
		Description: FirstString(raw, "description", "desc", "summary"),
		ModelID:     FirstString(raw, "modelId", "model", "embeddingModel"),
		Status:      strings.ToLower(FirstString(raw, "status", "trainingStatus", "state")),
		CreatedAt:   FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:   FirstDate(raw, "updatedAt", "updatedDate", "updated_at", "lastTrainedAt"),
	}
}
