package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/platform"
	anthropicpkg "github.com/conversehq/merchant-cli/pkg/anthropic"
)

var (
	promptsMerchant string
	promptsPage     int
	promptsSize     int
	promptFile      string
	promptTestParam []string
	promptTestModel string
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage merchant prompt templates",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts for a merchant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		page := env.Client.ListPrompts(cmd.Context(), flagCluster, promptsMerchant, platform.PageRequest{
			Page: promptsPage,
			Size: promptsSize,
		})
		return printJSON(page)
	},
}

var promptsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a prompt by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Client.GetPrompt(cmd.Context(), flagCluster, args[0])
		if p == nil {
			return eris.Errorf("prompt not found: %s", args[0])
		}
		return printJSON(p)
	},
}

var promptsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a prompt from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := promptInput()
		if err != nil {
			return err
		}
		if p.MerchantID == "" {
			p.MerchantID = promptsMerchant
		}

		created, err := env.Client.CreatePrompt(cmd.Context(), flagCluster, p)
		env.recordAudit(cmd.Context(), "prompt", p.Title, model.AuditCreate, err)
		if err != nil {
			return err
		}
		if created == nil {
			return nil
		}
		return printJSON(created)
	},
}

var promptsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a prompt from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := promptInput()
		if err != nil {
			return err
		}
		p.ID = args[0]

		err = env.Client.UpdatePrompt(cmd.Context(), flagCluster, p)
		env.recordAudit(cmd.Context(), "prompt", p.ID, model.AuditUpdate, err)
		return err
	},
}

var promptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		err = env.Client.DeletePrompt(cmd.Context(), flagCluster, args[0])
		env.recordAudit(cmd.Context(), "prompt", args[0], model.AuditDelete, err)
		return err
	},
}

var promptsTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Render a prompt and run it against the configured Claude model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic key is required (MERCHANT_ANTHROPIC_KEY)")
		}

		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Client.GetPrompt(cmd.Context(), flagCluster, args[0])
		if p == nil {
			return eris.Errorf("prompt not found: %s", args[0])
		}

		params, err := parseParams(promptTestParam)
		if err != nil {
			return err
		}
		rendered := p.Render(params)

		// Flag override, then the prompt's own model, then the configured
		// default.
		modelID := promptTestModel
		if modelID == "" {
			modelID = p.ModelID
		}
		if modelID == "" {
			modelID = cfg.Anthropic.DefaultModel
		}

		zap.L().Info("testing prompt",
			zap.String("prompt_id", p.ID),
			zap.String("model", modelID),
		)

		ai := anthropicpkg.NewClient(cfg.Anthropic.Key)
		resp, err := ai.CreateMessage(cmd.Context(), anthropicpkg.MessageRequest{
			Model:     modelID,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
			Messages:  []anthropicpkg.Message{{Role: "user", Content: rendered}},
		})
		if err != nil {
			return err
		}

		fmt.Println(resp.Text)
		zap.L().Info("prompt test complete",
			zap.String("stop_reason", resp.StopReason),
			zap.Int64("input_tokens", resp.Usage.InputTokens),
			zap.Int64("output_tokens", resp.Usage.OutputTokens),
		)
		return nil
	},
}

func promptInput() (model.Prompt, error) {
	var p model.Prompt
	if promptFile == "" {
		return p, eris.New("--file is required")
	}
	data, err := os.ReadFile(promptFile)
	if err != nil {
		return p, eris.Wrap(err, "read prompt file")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, eris.Wrap(err, "parse prompt file")
	}
	return p, nil
}

// parseParams turns repeated key=value flags into a map.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := cutParam(pair)
		if !ok {
			return nil, eris.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[k] = v
	}
	return params, nil
}

func cutParam(pair string) (string, string, bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], i > 0
		}
	}
	return "", "", false
}

func init() {
	promptsCmd.PersistentFlags().StringVar(&flagCluster, "cluster", "", "cluster key (default from config)")
	promptsCmd.PersistentFlags().StringVar(&promptsMerchant, "merchant", "", "merchant ID")
	promptsListCmd.Flags().IntVar(&promptsPage, "page", 0, "page number")
	promptsListCmd.Flags().IntVar(&promptsSize, "size", 20, "page size")
	promptsCreateCmd.Flags().StringVar(&promptFile, "file", "", "JSON file with the prompt payload")
	promptsUpdateCmd.Flags().StringVar(&promptFile, "file", "", "JSON file with the prompt payload")
	promptsTestCmd.Flags().StringArrayVar(&promptTestParam, "param", nil, "template parameter key=value (repeatable)")
	promptsTestCmd.Flags().StringVar(&promptTestModel, "model", "", "model override (default from config)")

	promptsCmd.AddCommand(promptsListCmd, promptsGetCmd, promptsCreateCmd,
		promptsUpdateCmd, promptsDeleteCmd, promptsTestCmd)
	rootCmd.AddCommand(promptsCmd)
}
