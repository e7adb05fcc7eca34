package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/platform"
)

var (
	merchantsPage int
	merchantsSize int
	merchantName  string
	merchantFile  string
)

var merchantsCmd = &cobra.Command{
	Use:   "merchants",
	Short: "Manage merchants",
}

var merchantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List merchants on a cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListMerchants(cmd.Context(), flagCluster, platform.PageRequest{
			Page: merchantsPage,
			Size: merchantsSize,
		})
		return printJSON(page)
	},
}

var merchantsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a merchant by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		m := env.Client.GetMerchant(cmd.Context(), flagCluster, args[0])
		if m == nil {
			return eris.Errorf("merchant not found: %s", args[0])
		}
		return printJSON(m)
	},
}

var merchantsFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a merchant by name (accent-insensitive)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		m := env.Client.FindMerchantByName(cmd.Context(), flagCluster, args[0])
		if m == nil {
			return eris.Errorf("no merchant named %q", args[0])
		}
		return printJSON(m)
	},
}

var merchantsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a merchant from a JSON file or --name",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		m, err := merchantInput()
		if err != nil {
			return err
		}

		created, err := env.Client.CreateMerchant(cmd.Context(), flagCluster, m)
		env.recordAudit(cmd.Context(), "merchant", m.Name, model.AuditCreate, err)
		if err != nil {
			return err
		}
		if created == nil {
			zap.L().Info("merchant created, no record echoed")
			return nil
		}
		return printJSON(created)
	},
}

var merchantsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a merchant from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		m, err := merchantInput()
		if err != nil {
			return err
		}
		m.ID = args[0]

		err = env.Client.UpdateMerchant(cmd.Context(), flagCluster, m)
		env.recordAudit(cmd.Context(), "merchant", m.ID, model.AuditUpdate, err)
		return err
	},
}

var merchantsStatusCmd = &cobra.Command{
	Use:   "status <id> <active|inactive|suspended>",
	Short: "Change a merchant's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		status := model.MerchantStatus(args[1])
		switch status {
		case model.MerchantActive, model.MerchantInactive, model.MerchantSuspended:
		default:
			return eris.Errorf("invalid status %q", args[1])
		}

		err = env.Client.UpdateMerchantStatus(cmd.Context(), flagCluster, args[0], status)
		env.recordAudit(cmd.Context(), "merchant", args[0], model.AuditUpdate, err)
		return err
	},
}

var merchantsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a merchant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		err = env.Client.DeleteMerchant(cmd.Context(), flagCluster, args[0])
		env.recordAudit(cmd.Context(), "merchant", args[0], model.AuditDelete, err)
		return err
	},
}

// merchantInput reads the merchant payload from --file, or builds a minimal
// one from --name.
func merchantInput() (model.Merchant, error) {
	var m model.Merchant
	if merchantFile != "" {
		data, err := os.ReadFile(merchantFile)
		if err != nil {
			return m, eris.Wrap(err, "read merchant file")
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return m, eris.Wrap(err, "parse merchant file")
		}
		return m, nil
	}
	if merchantName == "" {
		return m, eris.New("either --file or --name is required")
	}
	m.Name = merchantName
	m.Status = model.MerchantActive
	return m, nil
}

func init() {
	merchantsCmd.PersistentFlags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	merchantsListCmd.Flags().IntVar(&merchantsPage, "page", 0, "page number")
	merchantsListCmd.Flags().IntVar(&merchantsSize, "size", 20, "page size")
	merchantsCreateCmd.Flags().StringVar(&merchantName, "name", "", "merchant name")
	merchantsCreateCmd.Flags().StringVar(&merchantFile, "file", "", "JSON file with the merchant payload")
	merchantsUpdateCmd.Flags().StringVar(&merchantFile, "file", "", "JSON file with the merchant payload")

	merchantsCmd.AddCommand(merchantsListCmd, merchantsGetCmd, merchantsFindCmd,
		merchantsCreateCmd, merchantsUpdateCmd, merchantsStatusCmd, merchantsDeleteCmd)
	rootCmd.AddCommand(merchantsCmd)
}
