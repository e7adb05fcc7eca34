package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/store"
)

var (
	auditEntity  string
	auditCluster string
	auditAction  string
	auditSince   string
	auditLimit   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the write-operation audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded write operations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		f := store.Filter{
			Entity:  auditEntity,
			Cluster: auditCluster,
			Action:  model.AuditAction(auditAction),
			Limit:   auditLimit,
		}
		if auditSince != "" {
			since, err := time.Parse("2006-01-02", auditSince)
			if err != nil {
				return err
			}
			f.Since = since
		}

		recs, err := env.Audit.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		stats, err := env.Audit.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditEntity, "entity", "", "filter by entity type")
	auditListCmd.Flags().StringVar(&auditCluster, "cluster", "", "filter by cluster")
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "filter by action (create|update|delete)")
	auditListCmd.Flags().StringVar(&auditSince, "since", "", "only records on or after this date (YYYY-MM-DD)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "maximum records")

	auditCmd.AddCommand(auditListCmd, auditStatsCmd)
	rootCmd.AddCommand(auditCmd)
}
