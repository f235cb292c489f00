// Package apitest runs an in-process fake of the 1secmail API, for tests only.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

const Path = "/api/v1/"

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	ID      int
	From    string
	Subject string
	// Date sent in the listing
	Date string
	// DetailDate sent by readMessage. Date is used when empty
	DetailDate  string
	Body        string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

type failure struct {
	status int
	body   string
}

// Server answers the API actions from messages stored in memory
type Server struct {
	server    *httptest.Server
	mu        sync.Mutex
	domains   []string
	random    []string
	mailboxes map[string][]Message
	calls     map[string]int
	failures  map[string]failure
}

// NewServer starts a fake API on a local listener. It is closed at the end of the test.
func NewServer(tb testing.TB, domains ...string) *Server {
	tb.Helper()
	if len(domains) == 0 {
		domains = []string{"1secmail.com", "1secmail.org", "1secmail.net"}
	}
	s := &Server{
		domains:   domains,
		mailboxes: make(map[string][]Message),
		calls:     make(map[string]int),
		failures:  make(map[string]failure),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get(Path, s.serveAction)

	listener, err := nettest.NewLocalListener("tcp")
	require.NoError(tb, err)

	s.server = httptest.NewUnstartedServer(router)
	s.server.Listener.Close()
	s.server.Listener = listener
	s.server.Start()
	tb.Cleanup(s.server.Close)
	return s
}

// URL of the API endpoint
func (s *Server) URL() string {
	return s.server.URL + Path
}

// AddMessage stores a message in the mailbox address
func (s *Server) AddMessage(address string, message Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	address = strings.ToLower(address)
	s.mailboxes[address] = append(s.mailboxes[address], message)
}

// SetRandomAddresses sets the addresses returned by genRandomMailbox
func (s *Server) SetRandomAddresses(addresses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.random = addresses
}

// Fail makes the action answer with this status code and body
func (s *Server) Fail(action string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[action] = failure{status: status, body: body}
}

// Calls returns the number of requests received for the action
func (s *Server) Calls(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[action]
}

// TotalCalls returns the number of requests received for all actions
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, count := range s.calls {
		total += count
	}
	return total
}

func (s *Server) serveAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := r.URL.Query()
	action := query.Get("action")
	s.calls[action]++

	if fail, ok := s.failures[action]; ok {
		w.WriteHeader(fail.status)
		_, _ = w.Write([]byte(fail.body))
		return
	}

	address := strings.ToLower(query.Get("login") + "@" + query.Get("domain"))
	switch action {
	case "genRandomMailbox":
		s.genRandomMailbox(w, query.Get("count"))
	case "getDomainList":
		writeJSON(w, s.domains)
	case "getMessages":
		s.getMessages(w, address)
	case "readMessage":
		s.readMessage(w, address, query.Get("id"))
	case "download":
		s.download(w, address, query.Get("id"), query.Get("file"))
	default:
		http.Error(w, "Wrong action", http.StatusBadRequest)
	}
}

func (s *Server) genRandomMailbox(w http.ResponseWriter, countParam string) {
	count, _ := strconv.Atoi(countParam)
	if count < 1 {
		count = 1
	}
	addresses := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if len(s.random) > 0 {
			addresses = append(addresses, s.random[i%len(s.random)])
			continue
		}
		addresses = append(addresses, "random"+strconv.Itoa(i)+"@"+s.domains[i%len(s.domains)])
	}
	writeJSON(w, addresses)
}

func (s *Server) getMessages(w http.ResponseWriter, address string) {
	list := make([]map[string]any, 0)
	for _, message := range s.mailboxes[address] {
		list = append(list, map[string]any{
			"id":      message.ID,
			"from":    message.From,
			"subject": message.Subject,
			"date":    message.Date,
		})
	}
	writeJSON(w, list)
}

func (s *Server) readMessage(w http.ResponseWriter, address, id string) {
	message, found := s.findMessage(address, id)
	if !found {
		_, _ = w.Write([]byte("Message not found"))
		return
	}
	date := message.DetailDate
	if date == "" {
		date = message.Date
	}
	attachments := make([]map[string]any, 0, len(message.Attachments))
	for _, attachment := range message.Attachments {
		attachments = append(attachments, map[string]any{
			"filename":    attachment.Filename,
			"contentType": attachment.ContentType,
			"size":        len(attachment.Content),
		})
	}
	writeJSON(w, map[string]any{
		"id":          message.ID,
		"from":        message.From,
		"subject":     message.Subject,
		"date":        date,
		"attachments": attachments,
		"body":        message.Body,
		"textBody":    message.TextBody,
		"htmlBody":    message.HTMLBody,
	})
}

func (s *Server) download(w http.ResponseWriter, address, id, filename string) {
	message, found := s.findMessage(address, id)
	if !found {
		_, _ = w.Write([]byte("Message not found"))
		return
	}
	for _, attachment := range message.Attachments {
		if attachment.Filename == filename {
			w.Header().Set("Content-Type", attachment.ContentType)
			_, _ = w.Write(attachment.Content)
			return
		}
	}
	// the real service sends an empty answer
}

func (s *Server) findMessage(address, id string) (Message, bool) {
	messageID, err := strconv.Atoi(id)
	if err != nil {
		return Message{}, false
	}
	for _, message := range s.mailboxes[address] {
		if message.ID == messageID {
			return message, true
		}
	}
	return Message{}, false
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
