package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// storedCredential is the on-disk credential written by login. The config
// token (MERCHANT_PLATFORM_TOKEN) takes precedence when both are set.
type storedCredential struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

func credentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, ".merchant-cli", "credentials.yaml"), nil
}

func loadStoredCredential() string {
	path, err := credentialPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var cred storedCredential
	if err := yaml.Unmarshal(data, &cred); err != nil {
		zap.L().Warn("credential file unreadable", zap.String("path", path), zap.Error(err))
		return ""
	}
	return cred.Token
}

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a platform token against the default cluster and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginToken == "" {
			return eris.New("--token is required")
		}

		// Probe before persisting: a token is saved only after the cluster
		// itself accepted it. A rejection or an unreachable cluster both
		// abort the login.
		cfg.Platform.Token = loginToken
		env, err := initConsole(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Client.VerifyCredential(cmd.Context(), ""); err != nil {
			return eris.Wrap(err, "verify token")
		}

		path, err := credentialPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return eris.Wrap(err, "create credential dir")
		}
		data, err := yaml.Marshal(storedCredential{Token: loginToken, SavedAt: time.Now().UTC()})
		if err != nil {
			return eris.Wrap(err, "marshal credential")
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return eris.Wrap(err, "write credential file")
		}

		zap.L().Info("credential stored", zap.String("path", path))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored platform token",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := credentialPath()
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return eris.Wrap(err, "remove credential file")
		}
		zap.L().Info("credential removed", zap.String("path", path))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "platform API token")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
