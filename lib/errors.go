package lib

import "errors"

var (
	ErrInvalidAddress     = errors.New("invalid email address")
	ErrService            = errors.New("service error")
	ErrMessageNotFound    = errors.New("message not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrDetached           = errors.New("message is not attached to a mailbox")
)
