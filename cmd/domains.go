package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var domainsRemote bool

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Display the list of domains available for a mailbox",
	Args:  cobra.NoArgs,
	RunE:  runDomains,
}

func init() {
	domainsCmd.Flags().BoolVarP(&domainsRemote, "remote", "r", false, "ask the service for the domains currently active")
	rootCmd.AddCommand(domainsCmd)
}

func runDomains(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	domains := client.Domains()
	if domainsRemote {
		domains, err = client.DomainList(cmd.Context())
		if err != nil {
			return fmt.Errorf("cannot load the list of domains: %w", err)
		}
	}
	for _, domain := range domains {
		fmt.Fprintln(cmd.OutOrStdout(), domain)
	}
	return nil
}
