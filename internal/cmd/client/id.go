package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/tixid/internal/cmd/client/transports"
	"github.com/rzbill/tixid/pkg/snowflake"
)

func getTransport() transports.IDTransport {
	return transports.NewGrpcTransport(dialGRPCContext)
}

// NewIDCommand constructs the `id` command group.
func NewIDCommand() *cobra.Command {
	idCmd := &cobra.Command{Use: "id", Short: "Allocate and inspect IDs"}
	idCmd.AddCommand(
		newIssueCommand("next", "Allocate bare IDs", snowflake.KindID),
		newIssueCommand("ticket", "Allocate ticket numbers", snowflake.KindTicket),
		newIssueCommand("order", "Allocate order numbers", snowflake.KindOrder),
		newDecodeCommand(),
	)
	return idCmd
}

func newIssueCommand(use, short string, kind snowflake.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short + " over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			output, _ := cmd.Flags().GetString("output")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			if count < 1 {
				return fmt.Errorf("--count must be >= 1")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			tr := getTransport()
			for i := 0; i < count; i++ {
				number, err := issue(ctx, tr, kind)
				if err != nil {
					return err
				}
				if err := printNumber(cmd, output, number); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("count", 1, "How many to allocate")
	cmd.Flags().StringP("output", "o", "text", "Output format: text|json")
	cmd.Flags().Duration("timeout", 5*time.Second, "Request timeout")
	return cmd
}

func issue(ctx context.Context, tr transports.IDTransport, kind snowflake.Kind) (string, error) {
	switch kind {
	case snowflake.KindTicket:
		return tr.TicketNumber(ctx)
	case snowflake.KindOrder:
		return tr.OrderNumber(ctx)
	default:
		id, err := tr.NextID(ctx)
		if err != nil {
			return "", err
		}
		return snowflake.ID(id).String(), nil
	}
}

func printNumber(cmd *cobra.Command, output, number string) error {
	if output != "json" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), number)
		return err
	}
	kind, id, err := snowflake.ParseNumber(number)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), describe(kind, id))
}

// newDecodeCommand decodes locally; no server round trip.
func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <id|TKT...|ORD...>",
		Short: "Decode an ID or number into its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			kind, id, err := snowflake.ParseNumber(args[0])
			if err != nil {
				return err
			}
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), describe(kind, id))
			}
			p := snowflake.Decompose(id)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kind:        %s\n", kind)
			fmt.Fprintf(out, "id:          %s\n", id)
			fmt.Fprintf(out, "time:        %s\n", p.Time().Format(time.RFC3339Nano))
			fmt.Fprintf(out, "datacenter:  %d\n", p.DatacenterID)
			fmt.Fprintf(out, "worker:      %d\n", p.WorkerID)
			fmt.Fprintf(out, "sequence:    %d\n", p.Sequence)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text|json")
	return cmd
}
