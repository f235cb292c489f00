package cmd

import (
	"fmt"

	"github.com/creativeprojects/onesecmail/term"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Display the saved addresses",
	Args:  cobra.NoArgs,
	RunE:  runBook,
}

var bookSaveCmd = &cobra.Command{
	Use:   "save <name> <address>",
	Short: "Save an address under a name",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookSave,
}

var bookDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove an address from the book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookDelete,
}

var bookBackupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Copy the address book into a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookBackup,
}

func init() {
	bookCmd.AddCommand(bookSaveCmd, bookDeleteCmd, bookBackupCmd)
	rootCmd.AddCommand(bookCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	addressBook, err := openStore()
	if err != nil {
		return err
	}
	defer addressBook.Close()

	entries, err := addressBook.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		term.Warn("the address book is empty")
		return nil
	}
	table := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Name", "Address", "Created"},
	})
	for _, entry := range entries {
		table.Data = append(table.Data, []string{entry.Name, entry.Address, entry.Created.Format(dateFormat)})
	}
	return table.Render()
}

func runBookSave(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	// only valid addresses go in the book
	mbox, err := openMailbox(client, args[1])
	if err != nil {
		return err
	}
	addressBook, err := openStore()
	if err != nil {
		return err
	}
	defer addressBook.Close()

	entry, err := addressBook.Save(args[0], mbox.Address())
	if err != nil {
		return err
	}
	term.Infof("saved %s as %q", entry.Address, entry.Name)
	return nil
}

func runBookDelete(cmd *cobra.Command, args []string) error {
	addressBook, err := openStore()
	if err != nil {
		return err
	}
	defer addressBook.Close()

	err = addressBook.Delete(args[0])
	if err != nil {
		return fmt.Errorf("cannot delete %q: %w", args[0], err)
	}
	term.Infof("deleted %q", args[0])
	return nil
}

func runBookBackup(cmd *cobra.Command, args []string) error {
	addressBook, err := openStore()
	if err != nil {
		return err
	}
	defer addressBook.Close()

	err = addressBook.Backup(args[0])
	if err != nil {
		return fmt.Errorf("cannot backup the address book: %w", err)
	}
	term.Infof("address book saved into %s", args[0])
	return nil
}
