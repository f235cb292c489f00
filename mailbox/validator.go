package mailbox

// Validator decides if a message is kept in a listing
type Validator interface {
	Matches(message *Message) bool
}

// ValidatorFunc is an adapter to use a function as a Validator
type ValidatorFunc func(message *Message) bool

func (f ValidatorFunc) Matches(message *Message) bool {
	return f(message)
}

// matchAll returns true when every validator matches. No validator means no filtering.
func matchAll(message *Message, validators []Validator) bool {
	for _, validator := range validators {
		if validator == nil {
			continue
		}
		if !validator.Matches(message) {
			return false
		}
	}
	return true
}
