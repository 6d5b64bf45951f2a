package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yigit/communityadmin/internal/apitester"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/bootstrap"
	"github.com/yigit/communityadmin/internal/config"
	"github.com/yigit/communityadmin/internal/pkg/auth"
	"github.com/yigit/communityadmin/internal/pkg/logger"
)

// A small CLI for smoke testing the admin endpoints of a backend.

var (
	configPath string
	baseURL    string
	tokenFile  string
	timeout    time.Duration
	logLevel   string
	pretty     bool

	cfg *config.Config
	log zerolog.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "apitester",
		Short:         "Smoke test the community admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded

			flags := cmd.Flags()
			if !flags.Changed("log-level") {
				logLevel = cfg.Logging.Level
			}
			format := "json"
			if pretty {
				format = "pretty"
			}
			log = logger.Configure(logger.Config{Level: logLevel, Format: format, Output: os.Stderr})
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath), "config file; upstream and auth sections are used")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "upstream base url, overrides the config")
	root.PersistentFlags().StringVar(&tokenFile, "token-file", "", "file the bearer token is kept in, overrides the config")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout, overrides the config")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level, overrides the config")
	root.PersistentFlags().BoolVar(&pretty, "pretty", true, "human readable log output")

	root.AddCommand(runCmd(), loginCmd(), logoutCmd(), whoamiCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		opts   apitester.Options
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the admin endpoint sequence",
		Long: `run signs in (or reuses the stored token), lists events, reads statistics,
optionally creates an event in --community, then reads, updates, enrolls in and
unenrolls from an event.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}

			report, runErr := apitester.NewRunner(api, opts, log).Run(cmd.Context())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				for _, res := range report.Results {
					status := "ok"
					switch {
					case res.Skipped:
						status = "skipped"
					case res.Error != "":
						status = "FAILED"
					}
					detail := res.Detail
					if res.Error != "" {
						detail = res.Error
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-22s %-8s %s\n", res.Step, status, detail)
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&opts.Username, "username", "u", os.Getenv("APITESTER_USERNAME"), "admin username, empty to reuse the stored token")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", os.Getenv("APITESTER_PASSWORD"), "admin password")
	cmd.Flags().StringVar(&opts.Community, "community", "", "community to create a test event in")
	cmd.Flags().BoolVar(&opts.Cleanup, "cleanup", false, "delete the created event afterwards")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func loginCmd() *cobra.Command {
	var req dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := api.Auth.Login(cmd.Context(), req); err != nil {
				return err
			}
			user, err := api.Me.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.DisplayName(), user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", os.Getenv("APITESTER_USERNAME"), "admin username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", os.Getenv("APITESTER_PASSWORD"), "admin password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			return api.Auth.Logout(cmd.Context())
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			token := api.Client.Tokens().Token()
			if exp, err := auth.Expired(token, time.Now()); err == nil && exp {
				return fmt.Errorf("stored token has expired, run login again")
			}
			user, err := api.Me.Get(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(user)
		},
	}
}

// newAPI builds the client from the config, letting flags win. A token in the
// auth section is used as is; otherwise the token lives in the token file.
func newAPI() (*client.API, error) {
	opts := bootstrap.ClientOptions(cfg)
	opts.Retries = 1
	opts.Logger = log
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}

	switch {
	case tokenFile != "":
		opts.Tokens = auth.NewFileTokenStore(tokenFile)
	case cfg.Auth.Token != "":
		opts.Tokens = auth.NewMemoryTokenStore(cfg.Auth.Token)
	case cfg.Auth.TokenFile != "":
		opts.Tokens = auth.NewFileTokenStore(cfg.Auth.TokenFile)
	default:
		opts.Tokens = auth.NewFileTokenStore(defaultTokenFile())
	}

	c, err := client.New(opts)
	if err != nil {
		return nil, err
	}
	return client.NewAPI(c), nil
}

func defaultTokenFile() string {
	if path := os.Getenv("APITESTER_TOKEN_FILE"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".apitester-token"
	}
	return filepath.Join(dir, "community-admin", "token")
}
