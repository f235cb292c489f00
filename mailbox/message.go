package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/creativeprojects/onesecmail/api"
	"github.com/creativeprojects/onesecmail/lib"
)

const maxSubjectDisplay = 27

type Attachment struct {
	Filename    string
	ContentType string
	// Size in bytes
	Size int64
}

// Message is either a summary from a listing, or a full message once its content is fetched.
// Two messages with the same ID are equal.
type Message struct {
	ID      int
	From    string
	To      string
	Subject string
	Date    time.Time

	// The fields below are only set after fetching the content
	Body        string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment

	fetched bool
	mailbox *Mailbox
}

// NewMessageFromSummary creates a message from a listing entry
func NewMessageFromSummary(summary api.MessageSummary, to string, loc *time.Location) (*Message, error) {
	date, err := ParseDate(summary.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("message #%d: %w", summary.ID, err)
	}
	return &Message{
		ID:      summary.ID,
		From:    summary.From,
		To:      to,
		Subject: summary.Subject,
		Date:    date,
	}, nil
}

// NewMessageFromDetail creates a message with its content already fetched
func NewMessageFromDetail(detail *api.MessageDetail, to string, loc *time.Location) (*Message, error) {
	date, err := ParseDate(detail.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("message #%d: %w", detail.ID, err)
	}
	message := &Message{
		ID:   detail.ID,
		From: detail.From,
		To:   to,
		Date: date,
	}
	message.setContent(detail)
	return message, nil
}

// Fetched returns true when the message content is loaded
func (m *Message) Fetched() bool {
	return m.fetched
}

// FetchContent loads the body and the attachments list from the service.
// It does nothing if the content is already loaded.
func (m *Message) FetchContent(ctx context.Context) error {
	if m.fetched {
		return nil
	}
	if m.mailbox == nil {
		return lib.ErrDetached
	}
	detail, err := m.mailbox.client.ReadMessage(ctx, m.mailbox.login, m.mailbox.domain, m.ID)
	if err != nil {
		return err
	}
	m.setContent(detail)
	return nil
}

func (m *Message) setContent(detail *api.MessageDetail) {
	m.Subject = detail.Subject
	m.Body = detail.Body
	m.TextBody = detail.TextBody
	m.HTMLBody = detail.HTMLBody
	m.Attachments = make([]Attachment, len(detail.Attachments))
	for i, attachment := range detail.Attachments {
		m.Attachments[i] = Attachment{
			Filename:    attachment.Filename,
			ContentType: attachment.ContentType,
			Size:        attachment.Size,
		}
	}
	m.fetched = true
}

// Attachment returns the attachment description from its filename.
// The message content must be fetched first.
func (m *Message) Attachment(filename string) (Attachment, bool) {
	for _, attachment := range m.Attachments {
		if attachment.Filename == filename {
			return attachment, true
		}
	}
	return Attachment{}, false
}

// AttachmentContent downloads the content of an attachment in memory
func (m *Message) AttachmentContent(ctx context.Context, filename string) ([]byte, error) {
	if err := m.checkAttachment(ctx, filename); err != nil {
		return nil, err
	}
	return m.mailbox.attachmentContent(ctx, m.ID, filename)
}

// DownloadAttachment saves the attachment into the file destination and returns the number of bytes written.
// An existing file is overwritten.
func (m *Message) DownloadAttachment(ctx context.Context, filename, destination string) (int64, error) {
	if err := m.checkAttachment(ctx, filename); err != nil {
		return 0, err
	}
	return m.mailbox.downloadAttachment(ctx, m.ID, filename, destination)
}

func (m *Message) checkAttachment(ctx context.Context, filename string) error {
	if err := m.FetchContent(ctx); err != nil {
		return err
	}
	if _, found := m.Attachment(filename); !found {
		return fmt.Errorf("%w: %q in message #%d", lib.ErrAttachmentNotFound, filename, m.ID)
	}
	// the download needs the mailbox even when the content is already there
	if m.mailbox == nil {
		return lib.ErrDetached
	}
	return nil
}

// Equal only compares the message IDs
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.ID == other.ID
}

func (m *Message) String() string {
	subject := []rune(m.Subject)
	if len(subject) > maxSubjectDisplay {
		subject = append(subject[:maxSubjectDisplay], []rune("...")...)
	}
	return fmt.Sprintf("message #%d from %q, subject %q, date %s", m.ID, m.From, string(subject), m.Date.Format("2006-01-02 15:04:05-07:00"))
}
