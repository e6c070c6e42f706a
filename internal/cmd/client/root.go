package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the tixid client.
// It registers the id and issuances command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "tixid",
		Short: "tixid client commands",
	}
	root.AddCommand(NewIDCommand())
	root.AddCommand(NewIssuancesCommand(baseURL))
	return root
}
