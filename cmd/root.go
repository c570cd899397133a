package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"time"

	"github.com/askanna-io/askanna-cli/internal/api"
	"github.com/askanna-io/askanna-cli/internal/config"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	debug      bool
	logToFile  bool
	timeout    time.Duration
	configPath string
	remoteURL  string
	userAgent  string
	proxyURL   string
	headers    []string
)

var AskAnnaVersion = "dev"

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "askanna",
		Short:         "AskAnna CLI to push code and move packages, artifacts and results",
		Version:       AskAnnaVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return utils.InitLogger(debug, logToFile)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "Write logs to "+utils.LogFile+" instead of stderr")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "AskAnna API URL (overrides AA_REMOTE and the config file)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., user:pass@proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'X-Trace: 1'); can be specified multiple times")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newArtifactCmd())
	rootCmd.AddCommand(newResultCmd())
	rootCmd.AddCommand(newPackageCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fail(err)
	}
}

// fail prints one line and exits with status 1.
func fail(err error) {
	log.Debug().Str("op", "cmd/root").Err(err).Msg("command failed")
	output.PrintError(err.Error())
	os.Exit(1)
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// loadConfig applies file, then environment, then flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if remoteURL != "" {
		cfg.AskAnna.Remote = remoteURL
	}
	return cfg, nil
}

func httpConfig(cfg config.Config) utils.HTTPClientConfig {
	proxy, proxyUser, proxyPass := proxyURL, "", ""
	parsedProxy, err := u.Parse(proxyURL)
	if proxyURL != "" && err == nil && parsedProxy.User != nil {
		proxyUser = parsedProxy.User.Username()
		proxyPass, _ = parsedProxy.User.Password()
		parsedProxy.User = nil
		proxy = parsedProxy.String()
	}
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		ProxyURL:      proxy,
		ProxyUsername: proxyUser,
		ProxyPassword: proxyPass,
		UserAgent:     userAgent,
		Headers:       utils.ParseHeaderArgs(headers),
		APIURL:        cfg.Remote(),
		Token:         cfg.Auth.Token,
	}
}

// session returns a client and routes for a logged in user.
func session() (*utils.AskAnnaHTTPClient, api.Routes, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, api.Routes{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, api.Routes{}, err
	}
	return utils.NewAskAnnaHTTPClient(httpConfig(cfg)), api.Routes{Base: cfg.Remote()}, nil
}

func runSUUID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := config.RunSUUID(); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no run given, use --run or set AA_RUN_SUUID")
}
