package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/platform"
)

var (
	artifactsPage int
	artifactsSize int
	artifactFile  string
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Manage AI artifacts",
}

var artifactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List AI artifacts on a cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListArtifacts(cmd.Context(), flagCluster, platform.PageRequest{
			Page: artifactsPage,
			Size: artifactsSize,
		})
		return printJSON(page)
	},
}

var artifactsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch an AI artifact by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		a := env.Client.GetArtifact(cmd.Context(), flagCluster, args[0])
		if a == nil {
			return eris.Errorf("artifact not found: %s", args[0])
		}
		return printJSON(a)
	},
}

var artifactsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an AI artifact from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := artifactInput()
		if err != nil {
			return err
		}

		created, err := env.Client.CreateArtifact(cmd.Context(), flagCluster, a)
		env.recordAudit(cmd.Context(), "ai_artifact", a.Name, model.AuditCreate, err)
		if err != nil {
			return err
		}
		if created == nil {
			return nil
		}
		return printJSON(created)
	},
}

var artifactsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an AI artifact from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := artifactInput()
		if err != nil {
			return err
		}
		a.ID = args[0]

		err = env.Client.UpdateArtifact(cmd.Context(), flagCluster, a)
		env.recordAudit(cmd.Context(), "ai_artifact", a.ID, model.AuditUpdate, err)
		return err
	},
}

var artifactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an AI artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		err = env.Client.DeleteArtifact(cmd.Context(), flagCluster, args[0])
		env.recordAudit(cmd.Context(), "ai_artifact", args[0], model.AuditDelete, err)
		return err
	},
}

func artifactInput() (model.AIArtifact, error) {
	var a model.AIArtifact
	if artifactFile == "" {
		return a, eris.New("--file is required")
	}
	data, err := os.ReadFile(artifactFile)
	if err != nil {
		return a, eris.Wrap(err, "read artifact file")
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, eris.Wrap(err, "parse artifact file")
	}
	return a, nil
}

func init() {
	artifactsCmd.PersistentFlags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	artifactsListCmd.Flags().IntVar(&artifactsPage, "page", 0, "page number")
	artifactsListCmd.Flags().IntVar(&artifactsSize, "size", 20, "page size")
	artifactsCreateCmd.Flags().StringVar(&artifactFile, "file", "", "JSON file with the artifact payload")
	artifactsUpdateCmd.Flags().StringVar(&artifactFile, "file", "", "JSON file with the artifact payload")

	artifactsCmd.AddCommand(artifactsListCmd, artifactsGetCmd, artifactsCreateCmd,
		artifactsUpdateCmd, artifactsDeleteCmd)
	rootCmd.AddCommand(artifactsCmd)
}
