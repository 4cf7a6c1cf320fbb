package cmd

import (
	"fmt"
	"net"

	"github.com/kmehta/bahikhata/internal/web"
	"github.com/spf13/cobra"
)

var (
	webPort    int
	webHost    string
	webDataDir string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Launch the TUI in the browser, one set of books per session",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := net.JoinHostPort(webHost, fmt.Sprintf("%d", webPort))
		fmt.Printf("bahikhata web terminal: http://%s\n", listenAddr)

		webSrv := web.NewServer(listenAddr, webDataDir)
		return webSrv.ListenAndServe()
	},
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 8833, "HTTP port for web terminal")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "HTTP host for web terminal")
	webCmd.Flags().StringVar(&webDataDir, "data-dir", "sessions", "Directory for per-session databases")
	rootCmd.AddCommand(webCmd)
}
