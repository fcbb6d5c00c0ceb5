package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/devproxy"
)

var (
	proxyPort    int
	proxyAPIPort int
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the development reverse proxy",
	Long: `Forward /api, /yt, /yig and /youtubei to a local metadata service.

Point api.origin at this proxy to develop against a local upstream.`,
	Args: cobra.NoArgs,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().IntVar(&proxyPort, "port", 0, "listen port (default from config)")
	proxyCmd.Flags().IntVar(&proxyAPIPort, "api-port", 0, "upstream port (default from config)")
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, _ []string) error {
	pc := cfg.Proxy
	if proxyPort > 0 {
		pc.Port = proxyPort
	}
	if proxyAPIPort > 0 {
		pc.APIPort = proxyAPIPort
	}
	if err := pc.Validate(); err != nil {
		return err
	}

	srv, err := devproxy.New(pc, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Proxying %s -> %s:%d\n", srv.Addr(), pc.APIHost, pc.APIPort)
	return srv.Run(ctx)
}
