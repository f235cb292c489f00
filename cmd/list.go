package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/creativeprojects/onesecmail/term"
	"github.com/creativeprojects/onesecmail/validator"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const dateFormat = "2006-01-02 15:04:05 -0700"

type listFilters struct {
	from       string
	ignoreCase bool
	subject    string
	since      string
	until      string
	fetch      bool
}

var listFlags listFilters

var listCmd = &cobra.Command{
	Use:   "list <address or name>",
	Short: "Display the messages of a mailbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	flag := listCmd.Flags()
	flag.StringVar(&listFlags.from, "from", "", "only messages from this sender address")
	flag.BoolVarP(&listFlags.ignoreCase, "ignore-case", "i", false, "compare the sender address without considering the case")
	flag.StringVar(&listFlags.subject, "subject", "", "only messages with a subject matching this regular expression")
	flag.StringVar(&listFlags.since, "since", "", "only messages received from this date (like \"2021-06-25\") or for this duration (like \"2h\")")
	flag.StringVar(&listFlags.until, "until", "", "only messages received before this date or duration")
	flag.BoolVarP(&listFlags.fetch, "fetch", "f", false, "fetch the content of each message to display the attachments")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	mbox, err := openMailbox(client, args[0])
	if err != nil {
		return err
	}
	validators, err := buildValidators(listFlags, time.Now(), client.Location())
	if err != nil {
		return err
	}

	messages, err := mbox.GetMessages(cmd.Context(), validators...)
	if err != nil {
		return fmt.Errorf("cannot list messages: %w", err)
	}
	if len(messages) == 0 {
		term.Warnf("no message in %s", mbox)
		return nil
	}

	header := []string{"ID", "From", "Subject", "Date"}
	if listFlags.fetch {
		header = append(header, "Attachments")
	}
	table := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{header})
	for _, message := range messages {
		row := []string{strconv.Itoa(message.ID), message.From, message.Subject, message.Date.Format(dateFormat)}
		if listFlags.fetch {
			if err := message.FetchContent(cmd.Context()); err != nil {
				term.Errorf("message #%d: %s", message.ID, err)
			}
			row = append(row, strconv.Itoa(len(message.Attachments)))
		}
		table.Data = append(table.Data, row)
	}
	return table.Render()
}

func buildValidators(filters listFilters, now time.Time, loc *time.Location) ([]mailbox.Validator, error) {
	validators := make([]mailbox.Validator, 0, 4)
	if filters.from != "" {
		if filters.ignoreCase {
			validators = append(validators, validator.FromIgnoreCase(filters.from))
		} else {
			validators = append(validators, validator.From(filters.from))
		}
	}
	if filters.subject != "" {
		subject, err := validator.NewSubject(filters.subject)
		if err != nil {
			return nil, err
		}
		validators = append(validators, subject)
	}
	if filters.since != "" || filters.until != "" {
		dateRange := &validator.DateRange{}
		var err error
		if filters.since != "" {
			dateRange.Min, err = parseDateFlag(filters.since, now, loc)
			if err != nil {
				return nil, fmt.Errorf("invalid since flag: %w", err)
			}
		}
		if filters.until != "" {
			dateRange.Max, err = parseDateFlag(filters.until, now, loc)
			if err != nil {
				return nil, fmt.Errorf("invalid until flag: %w", err)
			}
		}
		if !dateRange.Min.IsZero() && !dateRange.Max.IsZero() && !dateRange.Min.Before(dateRange.Max) {
			return nil, errors.New("since flag should be before until flag")
		}
		validators = append(validators, dateRange)
	}
	return validators, nil
}

// parseDateFlag accepts a duration before now, a day, or a full date
func parseDateFlag(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if duration, err := time.ParseDuration(value); err == nil {
		return now.Add(-duration), nil
	}
	if day, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return day, nil
	}
	return mailbox.ParseDate(value, loc)
}
