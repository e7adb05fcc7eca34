package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conversehq/merchant-cli/internal/export"
	"github.com/conversehq/merchant-cli/internal/platform"
)

var (
	exportDir string
	exportFTP bool
)

var exportCmd = &cobra.Command{
	Use:   "export <merchant-id>",
	Short: "Export a merchant snapshot as an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initConsole(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		m := env.Client.GetMerchant(ctx, flagCluster, args[0])
		if m == nil {
			return eris.Errorf("merchant not found: %s", args[0])
		}

		snap := export.Snapshot{Merchant: *m}
		req := platform.PageRequest{Page: 0, Size: 100}

		// The entity reads never fail, so the group only aborts on ctx
		// cancellation.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			snap.Prompts = env.Client.ListPrompts(gctx, flagCluster, m.ID, req).Content
			return nil
		})
		g.Go(func() error {
			snap.KnowledgeBases = env.Client.ListKnowledgeBases(gctx, flagCluster, req).Content
			return nil
		})
		g.Go(func() error {
			snap.Artifacts = env.Client.ListArtifacts(gctx, flagCluster, req).Content
			return nil
		})
		g.Go(func() error {
			snap.Users = env.Client.ListMerchantUsers(gctx, flagCluster, m.ID, req).Content
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		path, err := export.WriteWorkbook(dir, snap)
		if err != nil {
			return err
		}
		zap.L().Info("workbook written", zap.String("path", path))
		fmt.Println(path)

		if exportFTP {
			uploader := export.NewFTPUploader(cfg.Export.FTP)
			if err := uploader.Upload(ctx, path); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportFTP, "ftp", false, "upload the workbook to the configured FTP share")
	rootCmd.AddCommand(exportCmd)
}
