package validator

import (
	"time"

	"github.com/creativeprojects/onesecmail/mailbox"
)

// DateRange keeps the messages dated from Min (included) to Max (excluded).
// A zero Min or Max leaves that end of the range open.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// verify interface
var _ mailbox.Validator = &DateRange{}

// Since keeps the messages dated at or after min
func Since(min time.Time) *DateRange {
	return &DateRange{Min: min}
}

// Until keeps the messages dated strictly before max
func Until(max time.Time) *DateRange {
	return &DateRange{Max: max}
}

func Between(min, max time.Time) *DateRange {
	return &DateRange{Min: min, Max: max}
}

func (v *DateRange) Matches(message *mailbox.Message) bool {
	if message == nil {
		return false
	}
	if !v.Min.IsZero() && message.Date.Before(v.Min) {
		return false
	}
	if !v.Max.IsZero() && !message.Date.Before(v.Max) {
		return false
	}
	return true
}
