// Command pharos serves a read-only query API over a labeled dataset.
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var exampleUsage = strings.TrimSpace(`
  pharos serve --config config.yaml
  pharos serve --manifest dataset.json.zst --http-port 9090 --log-level debug
  pharos inspect --config config.yaml
  pharos status --addr http://127.0.0.1:8080
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pharos",
		Short:         "Query API for plain and fusion labeled datasets",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newInspectCmd(), newStatusCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pharos:", err)
		os.Exit(1)
	}
}
