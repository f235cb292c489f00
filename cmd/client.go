package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/creativeprojects/onesecmail/api"
	"github.com/creativeprojects/onesecmail/lib"
	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/creativeprojects/onesecmail/store"
)

func debugLogger() lib.Logger {
	if global.verbose {
		return log.Default()
	}
	return nil
}

func newClient() (*api.Client, error) {
	apiConfig, err := config.APIConfig(debugLogger())
	if err != nil {
		return nil, err
	}
	return api.New(apiConfig)
}

func openStore() (*store.BoltStore, error) {
	addressBook, err := store.NewBoltStoreWithLogger(config.Store, debugLogger())
	if err != nil {
		return nil, fmt.Errorf("cannot open address book: %w", err)
	}
	return addressBook, nil
}

// openMailbox accepts an address, or a name from the address book
func openMailbox(client mailbox.Client, nameOrAddress string) (*mailbox.Mailbox, error) {
	if strings.Contains(nameOrAddress, "@") {
		return mailbox.FromAddress(client, nameOrAddress)
	}
	addressBook, err := openStore()
	if err != nil {
		return nil, err
	}
	defer addressBook.Close()

	return lookupMailbox(client, addressBook, nameOrAddress)
}

type addressGetter interface {
	Get(name string) (*store.Entry, error)
}

func lookupMailbox(client mailbox.Client, addressBook addressGetter, name string) (*mailbox.Mailbox, error) {
	entry, err := addressBook.Get(name)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, fmt.Errorf("%q is neither an address nor a saved name", name)
		}
		return nil, err
	}
	return mailbox.FromAddress(client, entry.Address)
}
