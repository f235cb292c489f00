// Package validator provides the predicates used to filter a mailbox listing.
//
// Validators passed together to mailbox.GetMessages must all match.
// Any other combination can be written with a mailbox.ValidatorFunc:
//
//	either := mailbox.ValidatorFunc(func(message *mailbox.Message) bool {
//		return first.Matches(message) || second.Matches(message)
//	})
package validator
