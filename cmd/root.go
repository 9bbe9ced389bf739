package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/rangefetch/internal/config"
	"github.com/tanq16/rangefetch/internal/utils"
)

var (
	cfgFile        string
	connections    int
	chunkSize      string
	workers        int
	timeout        time.Duration
	requestTimeout time.Duration
	userAgent      string
	proxyURL       string
	proxyUsername  string
	proxyPassword  string
	headers        []string
	username       string
	password       string
	bearerToken    string
	debug          bool
)

var (
	appConfig        config.Config
	globalHTTPConfig utils.HTTPClientConfig
)

var RangefetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "rangefetch",
	Short:   "rangefetch downloads large files over parallel HTTP range requests",
	Version: RangefetchVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.InitLogger(debug)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg
		globalHTTPConfig = buildHTTPConfig(cfg)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.rangefetch.yaml if present)")
	rootCmd.PersistentFlags().IntVarP(&connections, "connections", "c", 4, "Number of parallel range requests per download")
	rootCmd.PersistentFlags().StringVar(&chunkSize, "chunk-size", "1KiB", "Read size per chunk (eg. 1024, 64KiB, 1MB)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Number of downloads to run in parallel (batch)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", 0, "Deadline for each range request, 0 disables")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent (\"randomize\" picks a browser agent)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'X-Token: abc'); can be specified multiple times")
	rootCmd.PersistentFlags().StringVar(&username, "user", "", "Basic auth username for the origin")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Basic auth password for the origin")
	rootCmd.PersistentFlags().StringVar(&bearerToken, "bearer-token", "", "Bearer token sent to the origin")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newHTTPCmd())
	rootCmd.AddCommand(newS3Cmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}

// loadConfig layers defaults, the config file, RANGEFETCH_ variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	path := cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil && utils.FileExists(filepath.Join(home, ".rangefetch.yaml")) {
			path = filepath.Join(home, ".rangefetch.yaml")
		}
	}
	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	var override config.Config
	flags := cmd.Flags()
	if flags.Changed("connections") {
		override.Workers = connections
	}
	if flags.Changed("chunk-size") {
		size, err := utils.ParseBytes(chunkSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --chunk-size: %w", err)
		}
		override.ChunkSize = size
	}
	if flags.Changed("workers") {
		override.ParallelJobs = workers
	}
	if flags.Changed("timeout") {
		override.Timeout = timeout
	}
	if flags.Changed("request-timeout") {
		override.RequestTimeout = requestTimeout
	}
	if flags.Changed("user-agent") {
		override.UserAgent = userAgent
	}
	if flags.Changed("proxy") {
		override.ProxyURL = proxyURL
	}
	override.ProxyUsername = proxyUsername
	override.ProxyPassword = proxyPassword
	override.Headers = utils.ParseHeaderArgs(headers)

	cfg = cfg.Merge(override)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildHTTPConfig(cfg config.Config) utils.HTTPClientConfig {
	httpConfig := cfg.HTTPClientConfig()
	if httpConfig.UserAgent == "randomize" {
		httpConfig.UserAgent = utils.GetRandomUserAgent()
	}
	// Check if proxy URL contains auth
	parsedProxy, err := u.Parse(httpConfig.ProxyURL)
	if err == nil && parsedProxy.User != nil && httpConfig.ProxyUsername == "" {
		httpConfig.ProxyUsername = parsedProxy.User.Username()
		if pass, set := parsedProxy.User.Password(); set {
			httpConfig.ProxyPassword = pass
		}
		parsedProxy.User = nil
		httpConfig.ProxyURL = parsedProxy.String()
	}
	httpConfig.Username = username
	httpConfig.Password = password
	httpConfig.BearerToken = bearerToken
	httpConfig.LargeBuffers = cfg.Workers > 5
	return httpConfig
}
