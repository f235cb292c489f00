package cmd

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var readRaw bool

var readCmd = &cobra.Command{
	Use:   "read <address or name> <message ID>",
	Short: "Display a message",
	Args:  cobra.ExactArgs(2),
	RunE:  runRead,
}

func init() {
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "display the message as sent by the service (JSON)")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	id, err := parseMessageID(args[1])
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	mbox, err := openMailbox(client, args[0])
	if err != nil {
		return err
	}

	if readRaw {
		data, err := mbox.GetMessageAsMap(cmd.Context(), id)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	message, err := mbox.GetMessage(cmd.Context(), id)
	if err != nil {
		return err
	}
	return displayMessage(cmd.OutOrStdout(), message)
}

func displayMessage(output io.Writer, message *mailbox.Message) error {
	fmt.Fprintf(output, "From:    %s\n", message.From)
	fmt.Fprintf(output, "To:      %s\n", message.To)
	fmt.Fprintf(output, "Date:    %s\n", message.Date.Format(dateFormat))
	fmt.Fprintf(output, "Subject: %s\n\n", message.Subject)
	fmt.Fprintln(output, messageText(message))

	if len(message.Attachments) == 0 {
		return nil
	}
	table := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Attachment", "Type", "Size"},
	})
	for _, attachment := range message.Attachments {
		table.Data = append(table.Data, []string{
			attachment.Filename,
			attachment.ContentType,
			humanize.Bytes(uint64(attachment.Size)),
		})
	}
	rendered, err := table.Srender()
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "\n%s\n", rendered)
	return nil
}

// messageText prefers the text body, then the HTML body reduced to text
func messageText(message *mailbox.Message) string {
	if text := strings.TrimSpace(message.TextBody); text != "" {
		return text
	}
	source := message.HTMLBody
	if source == "" {
		source = message.Body
	}
	text := bluemonday.StrictPolicy().Sanitize(source)
	return strings.TrimSpace(html.UnescapeString(text))
}

func parseMessageID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid message ID %q", value)
	}
	return id, nil
}
