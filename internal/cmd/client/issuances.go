package client

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/tixid/internal/cmd/client/transports"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewIssuancesCommand constructs the `issuances` command group.
func NewIssuancesCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "issuances", Short: "Query the issuance ledger over HTTP"}
	cmd.AddCommand(newIssuancesListCommand(baseURL), newIssuancesLookupCommand(baseURL))
	return cmd
}

func newIssuancesListCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded issuances of one kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req transports.ListRequest
			req.Kind, _ = cmd.Flags().GetString("kind")
			req.Start, _ = cmd.Flags().GetString("start")
			req.Limit, _ = cmd.Flags().GetInt("limit")
			req.Reverse, _ = cmd.Flags().GetBool("reverse")
			req.Filter, _ = cmd.Flags().GetString("filter")

			tr := transports.NewHTTPTransport(baseURL(), nil)
			page, err := tr.ListIssuances(cmd.Context(), req)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tTIME\tDC\tWORKER\tSEQ\tREQUEST")
			for _, it := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", it.Number, it.Time, it.DatacenterID, it.WorkerID, it.Sequence, it.RequestID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if page.Next != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next: %s\n", page.Next)
			}
			return nil
		},
	}
	cmd.Flags().String("kind", "id", "Kind: id|ticket|order")
	cmd.Flags().String("start", "", "Start at this ID or number (inclusive)")
	cmd.Flags().Int("limit", 20, "Max entries")
	cmd.Flags().Bool("reverse", false, "Newest first")
	cmd.Flags().String("filter", "", "CEL filter, e.g. 'worker == 3 && now_ms - ts_ms < 60000'")
	return cmd
}

func newIssuancesLookupCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <id|TKT...|ORD...>",
		Short: "Show the ledger entry for one ID or number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := transports.NewHTTPTransport(baseURL(), nil)
			it, err := tr.LookupIssuance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "number:      %s\n", it.Number)
			fmt.Fprintf(out, "kind:        %s\n", it.Kind)
			fmt.Fprintf(out, "time:        %s\n", it.Time)
			fmt.Fprintf(out, "issued at:   %s\n", time.UnixMilli(it.IssuedAtMs).UTC().Format(time.RFC3339Nano))
			fmt.Fprintf(out, "datacenter:  %d\n", it.DatacenterID)
			fmt.Fprintf(out, "worker:      %d\n", it.WorkerID)
			fmt.Fprintf(out, "sequence:    %d\n", it.Sequence)
			if it.RequestID != "" {
				fmt.Fprintf(out, "request id:  %s\n", it.RequestID)
			}
			return nil
		},
	}
}
