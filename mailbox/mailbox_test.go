package mailbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creativeprojects/onesecmail/api"
	"github.com/creativeprojects/onesecmail/apitest"
	"github.com/creativeprojects/onesecmail/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "abc@1secmail.com"

func newTestClient(t *testing.T, server *apitest.Server) *api.Client {
	t.Helper()
	client, err := api.New(api.Config{
		BaseURL:     server.URL(),
		Domains:     []string{"1secmail.com", "1secmail.org", "1secmail.net"},
		DebugLogger: lib.NewTestLogger(t, "api"),
	})
	require.NoError(t, err)
	return client
}

func newScenarioServer(t *testing.T) *apitest.Server {
	t.Helper()
	server := apitest.NewServer(t)
	server.AddMessage(testAddress, apitest.Message{
		ID:         1001,
		From:       "Contact <contact@example.com>",
		Subject:    "Hello!",
		Date:       "2021-06-25 23:49:12",
		DetailDate: "2021-06-25 23:49:12+0200",
		Body:       "Hi!\n",
		TextBody:   "Hi!\n",
		Attachments: []apitest.Attachment{
			{Filename: "a.txt", ContentType: "text/plain", Content: []byte("0123456789")},
		},
	})
	server.AddMessage(testAddress, apitest.Message{
		ID:      1000,
		From:    "newsletter@example.org",
		Subject: "Weekly news",
		Date:    "2021-06-20 08:00:00",
	})
	return server
}

func TestFromAddressRoundTrip(t *testing.T) {
	client := newTestClient(t, apitest.NewServer(t))
	fixtures := []string{
		"abc@1secmail.com",
		"first.last@1secmail.org",
		"a_b-c+d@1secmail.net",
		"101c71a3206c42668ca7bda6fe225138@1secmail.com",
	}
	for _, fixture := range fixtures {
		t.Run(fixture, func(t *testing.T) {
			mbox, err := FromAddress(client, fixture)
			require.NoError(t, err)
			assert.Equal(t, fixture, mbox.String())
			assert.Equal(t, fixture, mbox.Address())
			login, domain, _ := strings.Cut(fixture, "@")
			assert.Equal(t, login, mbox.Login())
			assert.Equal(t, domain, mbox.Domain())
		})
	}
}

func TestFromInvalidAddress(t *testing.T) {
	client := newTestClient(t, apitest.NewServer(t))
	fixtures := []string{
		"",
		"abc",
		"abc.1secmail.com",
		"a@b@1secmail.com",
		"abc@example.com",
		"abc@",
		"@1secmail.com",
		"a bc@1secmail.com",
		"abc/def@1secmail.com",
	}
	for _, fixture := range fixtures {
		t.Run(fixture, func(t *testing.T) {
			mbox, err := FromAddress(client, fixture)
			assert.Nil(t, mbox)
			assert.ErrorIs(t, err, lib.ErrInvalidAddress)
		})
	}
}

func TestGetRandom(t *testing.T) {
	server := apitest.NewServer(t)
	server.SetRandomAddresses("xyz123@1secmail.net")
	client := newTestClient(t, server)

	mbox, err := GetRandom(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "xyz123@1secmail.net", mbox.Address())
}

func TestGetRandomWithUnexpectedAddress(t *testing.T) {
	server := apitest.NewServer(t)
	server.SetRandomAddresses("not an address")
	client := newTestClient(t, server)

	_, err := GetRandom(context.Background(), client)
	assert.ErrorIs(t, err, lib.ErrService)
	assert.ErrorIs(t, err, lib.ErrInvalidAddress)
}

func TestGetRandomServiceError(t *testing.T) {
	server := apitest.NewServer(t)
	server.Fail(api.ActionRandomMailbox, 503, "unavailable")
	client := newTestClient(t, server)

	_, err := GetRandom(context.Background(), client)
	assert.ErrorIs(t, err, lib.ErrService)
}

func TestGenerateWithoutNetwork(t *testing.T) {
	server := apitest.NewServer(t)
	client := newTestClient(t, server)

	for i := 0; i < 20; i++ {
		mbox, err := Generate(client)
		require.NoError(t, err)
		assert.Len(t, mbox.Login(), 32)
		assert.Contains(t, client.Domains(), mbox.Domain())
	}
	assert.Equal(t, 0, server.TotalCalls())
}

func TestGetMessagesWithoutValidator(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	messages, err := mbox.GetMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, 1001, messages[0].ID)
	assert.Equal(t, 1000, messages[1].ID)

	first := messages[0]
	assert.Equal(t, "Contact <contact@example.com>", first.From)
	assert.Equal(t, testAddress, first.To)
	assert.Equal(t, "Hello!", first.Subject)
	assert.True(t, time.Date(2021, 6, 25, 21, 49, 12, 0, time.UTC).Equal(first.Date))
	assert.False(t, first.Fetched())
	assert.Empty(t, first.TextBody)

	// an empty list of validators is the same as no validator
	same, err := mbox.GetMessages(context.Background(), []Validator{}...)
	require.NoError(t, err)
	assert.Equal(t, ids(messages), ids(same))
}

func TestGetMessagesAllValidatorsMustMatch(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	isRecent := ValidatorFunc(func(message *Message) bool {
		return message.Date.After(time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC))
	})
	isHello := ValidatorFunc(func(message *Message) bool {
		return strings.HasPrefix(message.Subject, "Hello")
	})
	isNews := ValidatorFunc(func(message *Message) bool {
		return strings.Contains(message.Subject, "news")
	})
	either := ValidatorFunc(func(message *Message) bool {
		return isHello.Matches(message) || isNews.Matches(message)
	})

	fixtures := []struct {
		name       string
		validators []Validator
		expected   []int
	}{
		{"none", nil, []int{1001, 1000}},
		{"nil validator is ignored", []Validator{nil}, []int{1001, 1000}},
		{"single", []Validator{isNews}, []int{1000}},
		{"both match", []Validator{isRecent, isHello}, []int{1001}},
		{"one does not match", []Validator{isRecent, isNews}, []int{}},
		{"or", []Validator{either}, []int{1001, 1000}},
	}
	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			messages, err := mbox.GetMessages(context.Background(), fixture.validators...)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, ids(messages))
		})
	}
}

func TestGetMessagesServiceError(t *testing.T) {
	server := newScenarioServer(t)
	server.Fail(api.ActionMessages, 500, "")
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	messages, err := mbox.GetMessages(context.Background())
	assert.Nil(t, messages)
	assert.ErrorIs(t, err, lib.ErrService)
}

func TestGetMessagesInvalidDate(t *testing.T) {
	server := apitest.NewServer(t)
	server.AddMessage(testAddress, apitest.Message{ID: 1, Date: "2021-06-25 23:49:12"})
	server.AddMessage(testAddress, apitest.Message{ID: 2, Date: "last week"})
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	// no partial result
	messages, err := mbox.GetMessages(context.Background())
	assert.Nil(t, messages)
	assert.ErrorIs(t, err, lib.ErrService)
}

func TestGetMessage(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	message, err := mbox.GetMessage(context.Background(), 1001)
	require.NoError(t, err)
	assert.True(t, message.Fetched())
	assert.Equal(t, "Hi!\n", message.TextBody)
	assert.Equal(t, testAddress, message.To)
	assert.Equal(t, []Attachment{{Filename: "a.txt", ContentType: "text/plain", Size: 10}}, message.Attachments)

	// both date formats give the same instant
	summaries, err := mbox.GetMessages(context.Background())
	require.NoError(t, err)
	assert.True(t, summaries[0].Date.Equal(message.Date))
	assert.True(t, summaries[0].Equal(message))
}

func TestGetMessageNotFound(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	_, err = mbox.GetMessage(context.Background(), 1)
	assert.ErrorIs(t, err, lib.ErrMessageNotFound)
}

func TestGetMessageAsMap(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	data, err := mbox.GetMessageAsMap(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, json.Number("1001"), data["id"])
	assert.Equal(t, testAddress, data["to"])
	assert.Equal(t, "Hi!\n", data["textBody"])
}

func TestGetMessageAsMapFromEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	client, err := api.New(api.Config{BaseURL: server.URL})
	require.NoError(t, err)
	mbox, err := FromAddress(client, testAddress)
	require.NoError(t, err)

	var data map[string]any
	assert.NotPanics(t, func() {
		data, err = mbox.GetMessageAsMap(context.Background(), 1)
	})
	assert.Nil(t, data)
	assert.ErrorIs(t, err, lib.ErrService)

	_, err = mbox.GetMessage(context.Background(), 1)
	assert.ErrorIs(t, err, lib.ErrService)
}

func TestDownloadAttachmentScenario(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)
	destination := filepath.Join(t.TempDir(), "x")

	_, err = mbox.DownloadAttachment(context.Background(), 1001, "b.txt", destination)
	assert.ErrorIs(t, err, lib.ErrAttachmentNotFound)
	assert.Equal(t, 0, server.Calls(api.ActionDownload))
	assert.NoFileExists(t, destination)

	written, err := mbox.DownloadAttachment(context.Background(), 1001, "a.txt", destination)
	require.NoError(t, err)
	assert.Equal(t, int64(10), written)
	assert.Equal(t, 1, server.Calls(api.ActionDownload))

	content, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))
}

func TestDownloadAttachmentOverwrites(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)
	destination := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(destination, []byte("a much longer previous content"), 0o600))

	_, err = mbox.DownloadAttachment(context.Background(), 1001, "a.txt", destination)
	require.NoError(t, err)

	content, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))
}

func TestAttachmentContent(t *testing.T) {
	server := newScenarioServer(t)
	mbox, err := FromAddress(newTestClient(t, server), testAddress)
	require.NoError(t, err)

	content, err := mbox.AttachmentContent(context.Background(), 1001, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), content)

	_, err = mbox.AttachmentContent(context.Background(), 1000, "a.txt")
	assert.ErrorIs(t, err, lib.ErrAttachmentNotFound)
}

func ids(messages []*Message) []int {
	list := make([]int, len(messages))
	for i, message := range messages {
		list[i] = message.ID
	}
	return list
}
