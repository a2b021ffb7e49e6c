package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/api"
)

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			if addr != "" {
				e.cfg.Server.Addr = addr
			}
			srv := api.New(e.svc, e.cfg.Server, e.log)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)
			go func() {
				<-stop
				e.log.Info().Msg("shutting down")
				_ = srv.Shutdown()
			}()

			return srv.Listen(e.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
