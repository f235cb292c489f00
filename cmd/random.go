package cmd

import (
	"fmt"

	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/creativeprojects/onesecmail/term"
	"github.com/spf13/cobra"
)

var randomFlags struct {
	local bool
	save  string
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Create a new random mailbox",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

func init() {
	flag := randomCmd.Flags()
	flag.BoolVarP(&randomFlags.local, "local", "l", false, "generate the address locally instead of asking the service")
	flag.StringVarP(&randomFlags.save, "save", "s", "", "save the address in the address book under this name")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var mbox *mailbox.Mailbox
	if randomFlags.local {
		mbox, err = mailbox.Generate(client)
	} else {
		mbox, err = mailbox.GetRandom(cmd.Context(), client)
	}
	if err != nil {
		return fmt.Errorf("cannot create mailbox: %w", err)
	}

	if randomFlags.save != "" {
		addressBook, err := openStore()
		if err != nil {
			return err
		}
		defer addressBook.Close()

		_, err = addressBook.Save(randomFlags.save, mbox.Address())
		if err != nil {
			return fmt.Errorf("cannot save address: %w", err)
		}
		term.Infof("saved as %q", randomFlags.save)
	}
	fmt.Fprintln(cmd.OutOrStdout(), mbox.Address())
	return nil
}
