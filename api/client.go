package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/creativeprojects/onesecmail/lib"
	"github.com/creativeprojects/onesecmail/limitio"
)

var errEmptyMessage = errors.New("empty message")

const (
	ActionRandomMailbox = "genRandomMailbox"
	ActionDomainList    = "getDomainList"
	ActionMessages      = "getMessages"
	ActionReadMessage   = "readMessage"
	ActionDownload      = "download"

	messageNotFound = "Message not found"
)

// Client sends the API actions. It holds no state besides its configuration.
type Client struct {
	baseURL  *url.URL
	cfg      Config
	client   *http.Client
	log      lib.Logger
	domains  []string
	location *time.Location
}

func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: unsupported scheme", cfg.BaseURL)
	}
	domains := make([]string, len(cfg.Domains))
	for i, domain := range cfg.Domains {
		domains[i] = strings.ToLower(strings.TrimSpace(domain))
	}
	return &Client{
		baseURL:  baseURL,
		cfg:      cfg,
		client:   cfg.HTTPClient,
		log:      cfg.DebugLogger,
		domains:  domains,
		location: cfg.Location,
	}, nil
}

// Domains returns a copy of the list of allowed domains
func (c *Client) Domains() []string {
	domains := make([]string, len(c.domains))
	copy(domains, c.domains)
	return domains
}

// Location used to read the dates sent without a UTC offset
func (c *Client) Location() *time.Location {
	return c.location
}

// RandomAddress asks the service to generate a new mailbox address
func (c *Client) RandomAddress(ctx context.Context) (string, error) {
	addresses, err := c.RandomAddresses(ctx, 1)
	if err != nil {
		return "", err
	}
	return addresses[0], nil
}

// RandomAddresses asks the service to generate count mailbox addresses
func (c *Client) RandomAddresses(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid number of addresses: %d", count)
	}
	addresses := make([]string, 0, count)
	params := url.Values{"count": {strconv.Itoa(count)}}
	err := c.getJSON(ctx, ActionRandomMailbox, params, &addresses)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, newServiceError(ActionRandomMailbox, http.StatusOK, nil, errors.New("empty list of addresses"))
	}
	return addresses, nil
}

// DomainList asks the service for the domains currently active
func (c *Client) DomainList(ctx context.Context) ([]string, error) {
	domains := make([]string, 0)
	err := c.getJSON(ctx, ActionDomainList, nil, &domains)
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// Messages lists the messages of the mailbox login@domain, in the order sent by the service
func (c *Client) Messages(ctx context.Context, login, domain string) ([]MessageSummary, error) {
	messages := make([]MessageSummary, 0)
	err := c.getJSON(ctx, ActionMessages, mailboxParams(login, domain), &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ReadMessage fetches the full message
func (c *Client) ReadMessage(ctx context.Context, login, domain string, id int) (*MessageDetail, error) {
	body, err := c.readMessage(ctx, login, domain, id)
	if err != nil {
		return nil, err
	}
	var detail *MessageDetail
	err = json.Unmarshal(body, &detail)
	if err != nil {
		return nil, newServiceError(ActionReadMessage, http.StatusOK, body, err)
	}
	if detail == nil {
		return nil, newServiceError(ActionReadMessage, http.StatusOK, body, errEmptyMessage)
	}
	return detail, nil
}

// ReadMessageMap fetches the full message as a generic map. Numbers are kept as json.Number.
func (c *Client) ReadMessageMap(ctx context.Context, login, domain string, id int) (map[string]any, error) {
	body, err := c.readMessage(ctx, login, domain, id)
	if err != nil {
		return nil, err
	}
	data := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	err = decoder.Decode(&data)
	if err != nil {
		return nil, newServiceError(ActionReadMessage, http.StatusOK, body, err)
	}
	if data == nil {
		return nil, newServiceError(ActionReadMessage, http.StatusOK, body, errEmptyMessage)
	}
	return data, nil
}

// Download streams the content of an attachment. The caller must close the reader.
func (c *Client) Download(ctx context.Context, login, domain string, id int, filename string) (io.ReadCloser, error) {
	params := mailboxParams(login, domain)
	params.Set("id", strconv.Itoa(id))
	params.Set("file", filename)
	resp, err := c.get(ctx, ActionDownload, params)
	if err != nil {
		return nil, err
	}
	if c.cfg.DownloadRate > 0 {
		return limitio.NewReadCloser(ctx, resp.Body, c.cfg.DownloadRate, c.cfg.DownloadBurst), nil
	}
	return resp.Body, nil
}

func (c *Client) readMessage(ctx context.Context, login, domain string, id int) ([]byte, error) {
	params := mailboxParams(login, domain)
	params.Set("id", strconv.Itoa(id))
	body, err := c.getBody(ctx, ActionReadMessage, params)
	if err != nil {
		return nil, err
	}
	// the service answers a plain text message instead of a JSON error
	if text := strings.TrimSpace(string(body)); strings.EqualFold(text, messageNotFound) {
		return nil, fmt.Errorf("%w: message #%d in %s@%s: %s", lib.ErrMessageNotFound, id, login, domain, text)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, action string, params url.Values, v any) error {
	body, err := c.getBody(ctx, action, params)
	if err != nil {
		return err
	}
	err = json.Unmarshal(body, v)
	if err != nil {
		return newServiceError(action, http.StatusOK, body, err)
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, action string, params url.Values) ([]byte, error) {
	resp, err := c.get(ctx, action, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newServiceError(action, resp.StatusCode, nil, fmt.Errorf("cannot read response: %w", err))
	}
	return body, nil
}

// get sends the request and checks the status code. The caller must close the response body.
func (c *Client) get(ctx context.Context, action string, params url.Values) (*http.Response, error) {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("action", action)
	target := *c.baseURL
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.log.Printf("GET %s", target.String())
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: action %q: %w", lib.ErrService, action, err)
	}
	c.log.Printf("%s: %s in %s", action, resp.Status, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		return nil, newServiceError(action, resp.StatusCode, body, nil)
	}
	return resp, nil
}

func mailboxParams(login, domain string) url.Values {
	return url.Values{
		"login":  {login},
		"domain": {domain},
	}
}
