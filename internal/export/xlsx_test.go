package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/conversehq/merchant-cli/internal/model"
)

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()

	snap := Snapshot{
		Merchant: model.Merchant{
			ID:       "m1",
			Name:     "Acme Stores",
			Status:   model.MerchantActive,
			Cluster:  "us-east",
			Channels: []string{"Web Chat", "WhatsApp"},
		},
		Prompts: []model.Prompt{
			{ID: "p1", Title: "Greeting", Type: "system", RequestParams: map[string]string{"tone": "warm"}},
		},
		KnowledgeBases: []model.KnowledgeBase{
			{ID: "kb1", Name: "FAQ", Status: "ready"},
		},
		Artifacts: []model.AIArtifact{
			{ID: "a1", Name: "Endpoint", Provider: "anthropic", Access: model.AccessPrivate},
		},
		Users: []model.MerchantUser{
			{ID: "u1", Email: "ops@acme.test", Role: "admin", Status: "active"},
		},
	}

	path, err := WriteWorkbook(dir, snap)
	require.NoError(t, err)
	assert.Contains(t, path, "Acme_Stores")

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 5)

	merchant := f.Sheet["Merchant"]
	require.NotNil(t, merchant)
	assert.Equal(t, "ID", merchant.Rows[0].Cells[0].String())
	assert.Equal(t, "m1", merchant.Rows[0].Cells[1].String())

	prompts := f.Sheet["Prompts"]
	require.NotNil(t, prompts)
	require.Len(t, prompts.Rows, 2)
	assert.Equal(t, "Greeting", prompts.Rows[1].Cells[1].String())

	users := f.Sheet["Users"]
	require.NotNil(t, users)
	assert.Equal(t, "ops@acme.test", users.Rows[1].Cells[1].String())
}

func TestWriteWorkbookEmptySnapshot(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteWorkbook(dir, Snapshot{Merchant: model.Merchant{ID: "m-only"}})
	require.NoError(t, err)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 5)

	// Entity sheets still carry their header row.
	prompts := f.Sheet["Prompts"]
	require.NotNil(t, prompts)
	require.Len(t, prompts.Rows, 1)
	assert.Equal(t, "ID", prompts.Rows[0].Cells[0].String())
}

func TestWorkbookNameSanitized(t *testing.T) {
	name := workbookName(model.Merchant{Name: "Café & SPA / Ltd."})
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "&")
	assert.Contains(t, name, ".xlsx")
}
