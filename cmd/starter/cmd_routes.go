package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-while/go-starters/internal/config"
	"github.com/go-while/go-starters/internal/web"
)

func init() {
	RootCmd.AddCommand(routesCmd, versionCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes <sample>",
	Short: "Print the route table of a sample in match order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, err := web.ParseSample(args[0])
		if err != nil {
			return err
		}
		mainConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		server, err := web.NewServer(mainConfig.Web, sample)
		if err != nil {
			return err
		}
		for i, route := range server.Routes.Routes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, route)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.AppVersion)
	},
}
