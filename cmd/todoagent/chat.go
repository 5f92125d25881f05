package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/todoagent/internal/appconfig"
	"pkt.systems/todoagent/internal/tui"
)

func newChatCmd() *cobra.Command {
	var cfgPath string
	var serverURL string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			url := serverURL
			if url == "" {
				url = cfg.Client.ServerURL
			}
			return tui.Run(cmd.Context(), url)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&serverURL, "server", "", "chat websocket URL (overrides config)")
	return cmd
}
