// Package export writes merchant snapshots as XLSX workbooks and optionally
// drops them on an FTP share for downstream reporting.
package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Snapshot is everything a merchant workbook contains. Slices may be empty;
// an empty sheet still gets its header row.
type Snapshot struct {
	Merchant       model.Merchant
	Prompts        []model.Prompt
	KnowledgeBases []model.KnowledgeBase
	Artifacts      []model.AIArtifact
	Users          []model.MerchantUser
}

// WriteWorkbook renders a snapshot into an XLSX file under dir and returns
// the written path.
func WriteWorkbook(dir string, snap Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}

	f := xlsx.NewFile()
	if err := addMerchantSheet(f, snap.Merchant); err != nil {
		return "", err
	}
	if err := addPromptSheet(f, snap.Prompts); err != nil {
		return "", err
	}
	if err := addKnowledgeBaseSheet(f, snap.KnowledgeBases); err != nil {
		return "", err
	}
	if err := addArtifactSheet(f, snap.Artifacts); err != nil {
		return "", err
	}
	if err := addUserSheet(f, snap.Users); err != nil {
		return "", err
	}

	path := filepath.Join(dir, workbookName(snap.Merchant))
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "export: save workbook")
	}
	return path, nil
}

// workbookName builds a filesystem-safe file name from the merchant name,
// falling back to the ID.
func workbookName(m model.Merchant) string {
	base := m.Name
	if base == "" {
		base = m.ID
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "merchant"
	}
	return name + "_" + time.Now().UTC().Format("20060102") + ".xlsx"
}

func addMerchantSheet(f *xlsx.File, m model.Merchant) error {
	sheet, err := f.AddSheet("Merchant")
	if err != nil {
		return eris.Wrap(err, "export: add merchant sheet")
	}
	pairs := [][2]string{
		{"ID", m.ID},
		{"Name", m.Name},
		{"Status", string(m.Status)},
		{"Cluster", m.Cluster},
		{"Email", m.Email},
		{"Phone", m.Phone},
		{"Address", m.Address},
		{"City", m.City},
		{"State", m.State},
		{"Postal Code", m.PostalCode},
		{"Country", m.Country},
		{"Channels", strings.Join(m.Channels, ", ")},
		{"Created", m.CreatedAt},
		{"Updated", m.UpdatedAt},
	}
	for _, p := range pairs {
		row := sheet.AddRow()
		row.AddCell().SetString(p[0])
		row.AddCell().SetString(p[1])
	}
	return nil
}

func addPromptSheet(f *xlsx.File, prompts []model.Prompt) error {
	sheet, err := f.AddSheet("Prompts")
	if err != nil {
		return eris.Wrap(err, "export: add prompts sheet")
	}
	header(sheet, "ID", "Title", "Type", "Model", "Parameters", "Updated")
	for _, p := range prompts {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(p.Type)
		row.AddCell().SetString(p.ModelID)
		row.AddCell().SetInt(len(p.RequestParams))
		row.AddCell().SetString(p.UpdatedAt)
	}
	return nil
}

func addKnowledgeBaseSheet(f *xlsx.File, kbs []model.KnowledgeBase) error {
	sheet, err := f.AddSheet("Knowledge Bases")
	if err != nil {
		return eris.Wrap(err, "export: add knowledge bases sheet")
	}
	header(sheet, "ID", "Name", "Status", "Model", "Updated")
	for _, kb := range kbs {
		row := sheet.AddRow()
		row.AddCell().SetString(kb.ID)
		row.AddCell().SetString(kb.Name)
		row.AddCell().SetString(kb.Status)
		row.AddCell().SetString(kb.ModelID)
		row.AddCell().SetString(kb.UpdatedAt)
	}
	return nil
}

func addArtifactSheet(f *xlsx.File, artifacts []model.AIArtifact) error {
	sheet, err := f.AddSheet("AI Artifacts")
	if err != nil {
		return eris.Wrap(err, "export: add artifacts sheet")
	}
	header(sheet, "ID", "Name", "Provider", "Access", "Attributes")
	for _, a := range artifacts {
		row := sheet.AddRow()
		row.AddCell().SetString(a.ID)
		row.AddCell().SetString(a.Name)
		row.AddCell().SetString(a.Provider)
		row.AddCell().SetString(string(a.Access))
		row.AddCell().SetInt(len(a.OtherAttributes))
	}
	return nil
}

func addUserSheet(f *xlsx.File, users []model.MerchantUser) error {
	sheet, err := f.AddSheet("Users")
	if err != nil {
		return eris.Wrap(err, "export: add users sheet")
	}
	header(sheet, "ID", "Email", "Role", "Status")
	for _, u := range users {
		row := sheet.AddRow()
		row.AddCell().SetString(u.ID)
		row.AddCell().SetString(u.Email)
		row.AddCell().SetString(u.Role)
		row.AddCell().SetString(u.Status)
	}
	return nil
}

func header(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, col := range cols {
		row.AddCell().SetString(col)
	}
}
