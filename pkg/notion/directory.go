package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Directory database schema. The "Merchant ID" property is the sync key:
// pages are matched on it, never on the title.
const (
	propName       = "Name"
	propMerchantID = "Merchant ID"
	propStatus     = "Status"
	propCluster    = "Cluster"
	propEmail      = "Email"
	propCountry    = "Country"
)

// SyncResult reports what a directory sync changed.
type SyncResult struct {
	Created int
	Updated int
}

// SyncMerchants mirrors the given merchants into the directory database,
// creating pages for unknown merchant IDs and updating the rest.
func SyncMerchants(ctx context.Context, c Client, dbID string, merchants []model.Merchant) (SyncResult, error) {
	var res SyncResult

	existing, err := existingPageIndex(ctx, c, dbID)
	if err != nil {
		return res, err
	}

	for _, m := range merchants {
		if m.ID == "" {
			continue
		}
		props := merchantProperties(m)

		if pageID, ok := existing[m.ID]; ok {
			_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props})
			if err != nil {
				return res, eris.Wrapf(err, "notion: sync merchant %s", m.ID)
			}
			res.Updated++
			continue
		}

		_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent:     notionapi.Parent{DatabaseID: notionapi.DatabaseID(dbID)},
			Properties: props,
		})
		if err != nil {
			return res, eris.Wrapf(err, "notion: sync merchant %s", m.ID)
		}
		res.Created++
	}

	zap.L().Info("notion: directory synced",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}

// existingPageIndex maps merchant ID to Notion page ID for every page
// already in the directory.
func existingPageIndex(ctx context.Context, c Client, dbID string) (map[string]string, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "notion: load directory")
	}

	index := make(map[string]string, len(pages))
	for _, page := range pages {
		id := richTextValue(page.Properties[propMerchantID])
		if id != "" {
			index[id] = string(page.ID)
		}
	}
	return index, nil
}

// QueryAll fetches all pages from a Notion database, handling pagination.
// Rate limiting is enforced by the Client (3 req/s by default).
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			break
		}
		next := &notionapi.DatabaseQueryRequest{StartCursor: resp.NextCursor}
		if filter != nil {
			next.Filter = filter.Filter
			next.Sorts = filter.Sorts
			next.PageSize = filter.PageSize
		}
		req = next
	}

	return all, nil
}

func merchantProperties(m model.Merchant) notionapi.Properties {
	return notionapi.Properties{
		propName: &notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: m.Name}}},
		},
		propMerchantID: &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: m.ID}}},
		},
		propStatus: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(m.Status)},
		},
		propCluster: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: m.Cluster},
		},
		propEmail: &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: m.Email}}},
		},
		propCountry: &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: m.Country}}},
		},
	}
}

func richTextValue(prop notionapi.Property) string {
	rt, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(rt.RichText) == 0 {
		return ""
	}
	return rt.RichText[0].PlainText
}
