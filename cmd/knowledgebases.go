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
	kbPage int
	kbSize int
	kbFile string
)

var kbCmd = &cobra.Command{
	Use:     "knowledge-bases",
	Aliases: []string{"kb"},
	Short:   "Manage knowledge bases",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge bases on a cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListKnowledgeBases(cmd.Context(), flagCluster, platform.PageRequest{
			Page: kbPage,
			Size: kbSize,
		})
		return printJSON(page)
	},
}

var kbGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a knowledge base by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		kb := env.Client.GetKnowledgeBase(cmd.Context(), flagCluster, args[0])
		if kb == nil {
			return eris.Errorf("knowledge base not found: %s", args[0])
		}
		return printJSON(kb)
	},
}

var kbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a knowledge base from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		kb, err := kbInput()
		if err != nil {
			return err
		}

		created, err := env.Client.CreateKnowledgeBase(cmd.Context(), flagCluster, kb)
		env.recordAudit(cmd.Context(), "knowledge_base", kb.Name, model.AuditCreate, err)
		if err != nil {
			return err
		}
		if created == nil {
			return nil
		}
		return printJSON(created)
	},
}

var kbUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a knowledge base from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		kb, err := kbInput()
		if err != nil {
			return err
		}
		kb.ID = args[0]

		err = env.Client.UpdateKnowledgeBase(cmd.Context(), flagCluster, kb)
		env.recordAudit(cmd.Context(), "knowledge_base", kb.ID, model.AuditUpdate, err)
		return err
	},
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		err = env.Client.DeleteKnowledgeBase(cmd.Context(), flagCluster, args[0])
		env.recordAudit(cmd.Context(), "knowledge_base", args[0], model.AuditDelete, err)
		return err
	},
}

func kbInput() (model.KnowledgeBase, error) {
	var kb model.KnowledgeBase
	if kbFile == "" {
		return kb, eris.New("--file is required")
	}
	data, err := os.ReadFile(kbFile)
	if err != nil {
		return kb, eris.Wrap(err, "read knowledge base file")
	}
	if err := json.Unmarshal(data, &kb); err != nil {
		return kb, eris.Wrap(err, "parse knowledge base file")
	}
	return kb, nil
}

func init() {
	kbCmd.PersistentFlags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	kbListCmd.Flags().IntVar(&kbPage, "page", 0, "page number")
	kbListCmd.Flags().IntVar(&kbSize, "size", 20, "page size")
	kbCreateCmd.Flags().StringVar(&kbFile, "file", "", "JSON file with the knowledge base payload")
	kbUpdateCmd.Flags().StringVar(&kbFile, "file", "", "JSON file with the knowledge base payload")

	kbCmd.AddCommand(kbListCmd, kbGetCmd, kbCreateCmd, kbUpdateCmd, kbDeleteCmd)
	rootCmd.AddCommand(kbCmd)
}
