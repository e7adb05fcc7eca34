package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/conversehq/merchant-cli/internal/platform"
)

var (
	visitorsMerchant string
	visitorsPage     int
	visitorsSize     int
)

var visitorsCmd = &cobra.Command{
	Use:   "visitors",
	Short: "Inspect visitors and engagements",
}

var visitorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visitors for a merchant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListVisitors(cmd.Context(), flagCluster, visitorsMerchant, platform.PageRequest{
			Page: visitorsPage,
			Size: visitorsSize,
		})
		return printJSON(page)
	},
}

var visitorsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a visitor by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		v := env.Client.GetVisitor(cmd.Context(), flagCluster, args[0])
		if v == nil {
			return eris.Errorf("visitor not found: %s", args[0])
		}
		return printJSON(v)
	},
}

var engagementsCmd = &cobra.Command{
	Use:   "engagements",
	Short: "List engagements for a merchant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListEngagements(cmd.Context(), flagCluster, visitorsMerchant, platform.PageRequest{
			Page: visitorsPage,
			Size: visitorsSize,
		})
		return printJSON(page)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List platform users for a merchant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListMerchantUsers(cmd.Context(), flagCluster, visitorsMerchant, platform.PageRequest{
			Page: visitorsPage,
			Size: visitorsSize,
		})
		return printJSON(page)
	},
}

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List configuration attributes for a merchant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListMerchantAttributes(cmd.Context(), flagCluster, visitorsMerchant, platform.PageRequest{
			Page: visitorsPage,
			Size: visitorsSize,
		})
		return printJSON(page)
	},
}

func init() {
	for _, c := range []*cobra.Command{visitorsCmd, engagementsCmd, usersCmd, attributesCmd} {
		c.PersistentFlags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
		c.PersistentFlags().StringVar(&visitorsMerchant, "merchant", "", "merchant ID")
		c.PersistentFlags().IntVar(&visitorsPage, "page", 0, "page number")
		c.PersistentFlags().IntVar(&visitorsSize, "size", 20, "page size")
	}

	visitorsCmd.AddCommand(visitorsListCmd, visitorsGetCmd)
	rootCmd.AddCommand(visitorsCmd, engagementsCmd, usersCmd, attributesCmd)
}
