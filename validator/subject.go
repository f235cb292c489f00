package validator

import (
	"fmt"
	"regexp"

	"github.com/creativeprojects/onesecmail/mailbox"
)

// Subject searches a regular expression anywhere in the subject. Use ^ to anchor at the start.
type Subject struct {
	Pattern *regexp.Regexp
}

// verify interface
var _ mailbox.Validator = &Subject{}

func NewSubject(pattern string) (*Subject, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid subject pattern: %w", err)
	}
	return &Subject{Pattern: compiled}, nil
}

// MustSubject is like NewSubject but panics if the pattern cannot be compiled
func MustSubject(pattern string) *Subject {
	return &Subject{Pattern: regexp.MustCompile(pattern)}
}

func (v *Subject) Matches(message *mailbox.Message) bool {
	if message == nil || v.Pattern == nil {
		return false
	}
	return v.Pattern.MatchString(message.Subject)
}
