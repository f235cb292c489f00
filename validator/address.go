package validator

import (
	"strings"

	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/emersion/go-message/mail"
)

// Address matches the sender address
type Address struct {
	Address    string
	IgnoreCase bool
}

// verify interface
var _ mailbox.Validator = &Address{}

// From matches the exact sender address
func From(address string) *Address {
	return &Address{Address: strings.TrimSpace(address)}
}

// FromIgnoreCase matches the sender address without considering the case
func FromIgnoreCase(address string) *Address {
	return &Address{Address: strings.TrimSpace(address), IgnoreCase: true}
}

func (v *Address) Matches(message *mailbox.Message) bool {
	if message == nil {
		return false
	}
	sender := senderAddress(message.From)
	if v.IgnoreCase {
		return strings.EqualFold(sender, v.Address)
	}
	return sender == v.Address
}

// senderAddress extracts the address from a value like "Name <name@example.com>"
func senderAddress(from string) string {
	address, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return address.Address
}
