package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-while/go-starters/internal/config"
)

// command-line flags
var (
	configPath   string
	webport      int
	webssl       bool
	webcertFile  string
	webkeyFile   string
	staticDir    string
	viewsDir     string
	otlpEndpoint string
	pprofAddr    string
	debug        bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "starter [command] [flags]",
	Short:         "Starter web servers: server-rendered, REST and hybrid SPA",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "JSON config file (defaults apply when empty)")
	flags.IntVar(&webport, "webport", 0, "Web server port (default: 11980)")
	flags.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flags.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flags.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flags.StringVar(&staticDir, "static", "", "asset root for the hybrid sample (default: embedded app)")
	flags.StringVar(&viewsDir, "views", "", "template folder for the rendered sample (default: embedded views)")
	flags.StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP/gRPC collector host:port, empty disables telemetry export")
	flags.StringVar(&pprofAddr, "pprof", "", "serve pprof on this address (e.g. :51111)")
	flags.BoolVar(&debug, "debug", false, "log routing and body parsing decisions")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Printf("[STARTER]: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	mainConfig, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	webConfig := mainConfig.Web

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	if staticDir != "" {
		webConfig.StaticDir = staticDir
	}
	if viewsDir != "" {
		webConfig.ViewsDir = viewsDir
	}
	if cmd.Flags().Changed("debug") {
		webConfig.Debug = debug
	}
	if otlpEndpoint != "" {
		mainConfig.Telemetry.Endpoint = otlpEndpoint
	}
	if pprofAddr != "" {
		mainConfig.PprofAddr = pprofAddr
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}
	return mainConfig, nil
}
