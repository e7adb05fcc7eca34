package main

import (
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/conversehq/merchant-cli/internal/platform"
)

// clusterOverview is one row of the overview output.
type clusterOverview struct {
	Cluster   string         `json:"cluster"`
	BaseURL   string         `json:"baseUrl"`
	Merchants int            `json:"merchants"`
	ByStatus  map[string]int `json:"byStatus"`
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize merchants across all configured clusters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initConsole(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		keys := env.Resolver.Keys()
		rows := make([]clusterOverview, len(keys))
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, key := range keys {
			g.Go(func() error {
				row := clusterOverview{
					Cluster:  key,
					BaseURL:  env.Resolver.BaseURL(key).String(),
					ByStatus: make(map[string]int),
				}

				req := platform.PageRequest{Page: 0, Size: 100}
				for {
					page := env.Client.ListMerchants(gctx, key, req)
					for _, m := range page.Content {
						row.ByStatus[string(m.Status)]++
					}
					row.Merchants += len(page.Content)
					if page.Last || len(page.Content) == 0 {
						break
					}
					req.Page++
				}

				mu.Lock()
				rows[i] = row
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		return printJSON(rows)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
