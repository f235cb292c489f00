package mailbox

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/creativeprojects/onesecmail/api"
	"github.com/creativeprojects/onesecmail/lib"
	"github.com/google/uuid"
)

// DefaultLocation is used to read the dates without a UTC offset, when the client doesn't specify any
var DefaultLocation = time.FixedZone("", int(api.DefaultOffset.Seconds()))

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)

// Client sends the API requests. It is implemented by *api.Client
type Client interface {
	// Domains allowed for a mailbox
	Domains() []string
	// Location of the dates sent without a UTC offset
	Location() *time.Location
	RandomAddress(ctx context.Context) (string, error)
	Messages(ctx context.Context, login, domain string) ([]api.MessageSummary, error)
	ReadMessage(ctx context.Context, login, domain string, id int) (*api.MessageDetail, error)
	ReadMessageMap(ctx context.Context, login, domain string, id int) (map[string]any, error)
	Download(ctx context.Context, login, domain string, id int, filename string) (io.ReadCloser, error)
}

// verify interface
var _ Client = &api.Client{}

// Mailbox is a login and domain pair on the service
type Mailbox struct {
	login  string
	domain string
	client Client
}

// New checks the login and the domain
func New(client Client, login, domain string) (*Mailbox, error) {
	if !loginPattern.MatchString(login) {
		return nil, fmt.Errorf("%w: login %q contains invalid characters", lib.ErrInvalidAddress, login)
	}
	if !isAllowed(domain, client.Domains()) {
		return nil, fmt.Errorf("%w: %q is not an allowed domain", lib.ErrInvalidAddress, domain)
	}
	return &Mailbox{
		login:  login,
		domain: domain,
		client: client,
	}, nil
}

// FromAddress splits an address login@domain
func FromAddress(client Client, address string) (*Mailbox, error) {
	parts := strings.Split(strings.TrimSpace(address), "@")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q should contain exactly one '@'", lib.ErrInvalidAddress, address)
	}
	return New(client, parts[0], parts[1])
}

// GetRandom asks the service to generate a mailbox
func GetRandom(ctx context.Context, client Client) (*Mailbox, error) {
	address, err := client.RandomAddress(ctx)
	if err != nil {
		return nil, err
	}
	mbox, err := FromAddress(client, address)
	if err != nil {
		return nil, fmt.Errorf("%w: unexpected address from the service: %w", lib.ErrService, err)
	}
	return mbox, nil
}

// Generate creates a mailbox with a random login on one of the allowed domains, without calling the service.
// The login is a UUID without dashes (32 characters).
func Generate(client Client) (*Mailbox, error) {
	domains := client.Domains()
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: no domain available", lib.ErrInvalidAddress)
	}
	login := strings.ReplaceAll(uuid.NewString(), "-", "")
	domain := domains[rand.Intn(len(domains))]
	return New(client, login, domain)
}

func (b *Mailbox) Login() string {
	return b.login
}

func (b *Mailbox) Domain() string {
	return b.domain
}

func (b *Mailbox) Address() string {
	return b.login + "@" + b.domain
}

func (b *Mailbox) String() string {
	return b.Address()
}

// GetMessages returns the messages matching all the validators, in the order sent by the service.
// The messages only contain the summary: use FetchContent to load the content.
func (b *Mailbox) GetMessages(ctx context.Context, validators ...Validator) ([]*Message, error) {
	list, err := b.client.Messages(ctx, b.login, b.domain)
	if err != nil {
		return nil, err
	}
	messages := make([]*Message, 0, len(list))
	for _, summary := range list {
		message, err := NewMessageFromSummary(summary, b.Address(), b.client.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", lib.ErrService, err)
		}
		message.mailbox = b
		if !matchAll(message, validators) {
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// GetMessage returns the full message
func (b *Mailbox) GetMessage(ctx context.Context, id int) (*Message, error) {
	detail, err := b.client.ReadMessage(ctx, b.login, b.domain, id)
	if err != nil {
		return nil, err
	}
	message, err := NewMessageFromDetail(detail, b.Address(), b.client.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lib.ErrService, err)
	}
	message.mailbox = b
	return message, nil
}

// GetMessageAsMap returns the message as sent by the service, with the recipient address added in "to"
func (b *Mailbox) GetMessageAsMap(ctx context.Context, id int) (map[string]any, error) {
	data, err := b.client.ReadMessageMap(ctx, b.login, b.domain, id)
	if err != nil {
		return nil, err
	}
	data["to"] = b.Address()
	return data, nil
}

// AttachmentContent downloads the content of an attachment in memory
func (b *Mailbox) AttachmentContent(ctx context.Context, messageID int, filename string) ([]byte, error) {
	message, err := b.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return message.AttachmentContent(ctx, filename)
}

// DownloadAttachment saves the attachment into the file destination and returns the number of bytes written.
// It fails with lib.ErrAttachmentNotFound when the message doesn't list the filename.
func (b *Mailbox) DownloadAttachment(ctx context.Context, messageID int, filename, destination string) (int64, error) {
	message, err := b.GetMessage(ctx, messageID)
	if err != nil {
		return 0, err
	}
	return message.DownloadAttachment(ctx, filename, destination)
}

func (b *Mailbox) attachmentContent(ctx context.Context, messageID int, filename string) ([]byte, error) {
	reader, err := b.client.Download(ctx, b.login, b.domain, messageID, filename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot download %q: %w", filename, err)
	}
	return content, nil
}

func (b *Mailbox) downloadAttachment(ctx context.Context, messageID int, filename, destination string) (int64, error) {
	reader, err := b.client.Download(ctx, b.login, b.domain, messageID, filename)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	file, err := os.Create(destination)
	if err != nil {
		return 0, fmt.Errorf("cannot save attachment: %w", err)
	}
	written, err := io.Copy(file, reader)
	if err != nil {
		_ = file.Close()
		return written, fmt.Errorf("cannot download %q: %w", filename, err)
	}
	return written, file.Close()
}

func isAllowed(domain string, domains []string) bool {
	for _, allowed := range domains {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}
	return false
}
