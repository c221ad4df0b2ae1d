package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rexzheng324-c/pharos/server/internal/probe"
)

var errNotReady = errors.New("dataset not loaded")

func newStatusCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report health and request counters of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			rep, err := probe.Check(ctx, &http.Client{Timeout: timeout}, addr)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "addr:             %s\nstatus:           %s\n", rep.Addr, rep.Status)
			if rep.Mode != "" {
				fmt.Fprintf(w, "mode:             %s\n", rep.Mode)
			}
			fmt.Fprintf(w, "requests:         %.0f\nserver errors:    %.0f\nresolve failures: %.0f\n",
				rep.Requests, rep.ServerErrors, rep.ResolveFailures)

			routes := make([]string, 0, len(rep.Routes))
			for r := range rep.Routes {
				routes = append(routes, r)
			}
			sort.Strings(routes)
			for _, r := range routes {
				fmt.Fprintf(w, "  %-12s %.0f\n", r, rep.Routes[r])
			}

			if !rep.Ready() {
				return errNotReady
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://127.0.0.1:8080", "base URL of the server")
	cmd.Flags().DurationVar(&timeout, "timeout", probe.DefaultTimeout, "overall timeout")
	return cmd
}
