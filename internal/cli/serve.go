package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/polymer-explorer/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web explorer",
		Long: `Start the dataset explorer web server.

Examples:
  polyx serve                          # bundled sample on port 8080
  polyx serve --port 3000 -d data.json.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			if cmd.Flags().Changed("port") {
				app.Config.Port = port
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng, err := app.Engine(ctx)
			if err != nil {
				return err
			}
			server, err := web.NewServer(web.Config{
				Addr:            app.Config.Addr(),
				ShutdownTimeout: app.Config.ShutdownTimeout,
			}, eng, app.Log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Start(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				if ctx.Err() != nil {
					app.Log.Info("shutting down")
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}
