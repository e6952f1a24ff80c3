// Package export renders filter results as plain-text transcripts for
// pasting into other tools.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

const blockSeparator = "----------------------------------------"

// timeLayout includes the year only when the result spans more than one
// calendar year.
func timeLayout(showYear bool) string {
	if showYear {
		return "2006-01-02 15:04"
	}
	return "01-02 15:04"
}

// WriteTranscript renders the result's blocks oldest first, each headed
// by its time span, with one "sender: content" line per message.
func WriteTranscript(w io.Writer, res *chatlog.FilterResult, chatName string, showYear bool) error {
	if res == nil || len(res.Blocks) == 0 {
		return fmt.Errorf("export: nothing to export")
	}

	layout := timeLayout(showYear)
	if chatName != "" {
		if _, err := fmt.Fprintf(w, "# %s\n\n", chatName); err != nil {
			return err
		}
	}
	for i, b := range res.Blocks {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n%s\n\n", blockSeparator); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%s .. %s]\n",
			b.StartTs.Format(layout), b.EndTs.Format(layout)); err != nil {
			return err
		}
		for _, m := range b.Messages {
			if err := writeMessage(w, m, layout); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMessage(w io.Writer, m chatlog.Message, layout string) error {
	content := m.Content
	if m.Kind == chatlog.KindMedia && content == "" {
		content = "[media]"
	}
	// Continuation lines of multi-line messages are indented under the
	// sender prefix.
	lines := strings.Split(content, "\n")
	if _, err := fmt.Fprintf(w, "%s %s: %s\n", m.Timestamp.Format(layout), m.SenderName, lines[0]); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// Transcript renders to a string. Convenience wrapper around
// WriteTranscript for the clipboard path.
func Transcript(res *chatlog.FilterResult, chatName string, showYear bool) (string, error) {
	var sb strings.Builder
	if err := WriteTranscript(&sb, res, chatName, showYear); err != nil {
		return "", err
	}
	return sb.String(), nil
}
