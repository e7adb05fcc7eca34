package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/platform"
	"github.com/conversehq/merchant-cli/pkg/notion"
)

var notionSyncCmd = &cobra.Command{
	Use:   "sync-notion",
	Short: "Mirror the merchant directory into the Notion ops workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Notion.Token == "" || cfg.Notion.DirectoryDB == "" {
			return eris.New("notion token and directory_db are required")
		}

		ctx := cmd.Context()
		env, err := initConsole(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// Walk the full directory. Reads degrade to empty pages, so a
		// failing cluster shows up as a short sync, not an abort.
		var merchants []model.Merchant
		req := platform.PageRequest{Page: 0, Size: 100}
		for {
			page := env.Client.ListMerchants(ctx, flagCluster, req)
			merchants = append(merchants, page.Content...)
			if page.Last || len(page.Content) == 0 {
				break
			}
			req.Page++
		}

		client := notion.NewClient(cfg.Notion.Token)
		res, err := notion.SyncMerchants(ctx, client, cfg.Notion.DirectoryDB, merchants)
		if err != nil {
			return err
		}

		zap.L().Info("notion sync complete",
			zap.Int("merchants", len(merchants)),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
		)
		return nil
	},
}

func init() {
	notionSyncCmd.Flags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	rootCmd.AddCommand(notionSyncCmd)
}
