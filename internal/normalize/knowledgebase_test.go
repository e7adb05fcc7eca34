package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnowledgeBase_AliasChains(t *testing.T) {
	t.Parallel()

	kb := KnowledgeBase(map[string]any{
		"kbId":              "kb-7",
		"knowledgeBaseName": "Returns policy",
		"embeddingModel":    "voyage-3",
		"trainingStatus":    "TRAINING",
		"lastTrainedAt":     "2024-03-01T10:00:00Z",
	})

	assert.Equal(t, "kb-7", kb.ID)
	assert.Equal(t, "Returns policy", kb.Name)
	assert.Equal(t, "voyage-3", kb.ModelID)
	assert.Equal(t, "training", kb.Status)
	assert.Equal(t, "2024-03-01T10:00:00.000Z", kb.UpdatedAt)
}

func TestKnowledgeBase_PrimaryKeysWin(t *testing.T) {
	t.Parallel()

	kb := KnowledgeBase(map[string]any{
		"id":     "kb-1",
		"kbId":   "kb-shadow",
		"name":   "FAQ",
		"title":  "shadow",
		"status": "Trained",
	})

	assert.Equal(t, "kb-1", kb.ID)
	assert.Equal(t, "FAQ", kb.Name)
	assert.Equal(t, "trained", kb.Status)
}

func TestKnowledgeBase_Empty(t *testing.T) {
	t.Parallel()

	kb := KnowledgeBase(map[string]any{})
	assert.Empty(t, kb.ID)
	assert.Empty(t, kb.Status)
	assert.Empty(t, kb.CreatedAt)
}
