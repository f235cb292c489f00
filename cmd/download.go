package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeprojects/onesecmail/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var downloadDir string

var downloadCmd = &cobra.Command{
	Use:   "download <address or name> <message ID> [attachment...]",
	Short: "Save the attachments of a message",
	Long:  "\nSave the attachments of a message. All the attachments are saved when none is specified",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", ".", "destination directory")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
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
	message, err := mbox.GetMessage(cmd.Context(), id)
	if err != nil {
		return err
	}

	filenames := args[2:]
	if len(filenames) == 0 {
		for _, attachment := range message.Attachments {
			filenames = append(filenames, attachment.Filename)
		}
	}
	if len(filenames) == 0 {
		term.Warnf("message #%d has no attachment", id)
		return nil
	}
	err = os.MkdirAll(downloadDir, 0o755)
	if err != nil {
		return err
	}

	failed := 0
	pbar := newProgresser("downloading", len(filenames))
	for _, filename := range filenames {
		destination := filepath.Join(downloadDir, sanitizeFilename(filename))
		written, err := message.DownloadAttachment(cmd.Context(), filename, destination)
		pbar.Increment()
		if err != nil {
			// display error but keep going
			term.Errorf("cannot download %q: %s", filename, err)
			failed++
			continue
		}
		term.Infof("saved %s (%s)", destination, humanize.Bytes(uint64(written)))
	}
	pbar.Stop()

	if failed > 0 {
		return fmt.Errorf("%d attachment(s) failed to download", failed)
	}
	return nil
}

// sanitizeFilename keeps the attachment inside the destination directory
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, "\\", "/")))

	cleaned := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, filename)

	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}
	if cleaned == "" || cleaned == "/" || cleaned == "." || cleaned == ".." {
		cleaned = "attachment.bin"
	}
	return cleaned
}
