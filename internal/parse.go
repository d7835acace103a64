package internal

import (
	"fmt"
	"strings"
)

// recordSeparator introduces every entry. It is a control character so that
// free text in a message (including the field labels) cannot split a record.
const recordSeparator = "\x1e"

const (
	labelCommit  = "commit"
	labelAuthor  = "author"
	labelDate    = "date"
	labelMessage = "message"
)

// HistoryFormat is the git pretty-format producing one labeled entry per commit.
// It must be paired with --date=short.
const HistoryFormat = "%x1e" + labelCommit + " %H%n" +
	labelAuthor + " %an <%ae>%n" +
	labelDate + " %ad%n" +
	labelMessage + " %B"

// ParseHistory splits raw templated history into records, preserving order.
// Chunks missing a structural line are dropped and reported in malformed.
func ParseHistory(raw string) (records []CommitRecord, malformed []error) {
	records = []CommitRecord{}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	chunks := strings.Split(raw, recordSeparator)
	// chunks[0] is whatever preceded the first separator
	for i, chunk := range chunks[1:] {
		rec, err := parseEntry(chunk)
		if err != nil {
			malformed = append(malformed, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}

	return records, malformed
}

func parseEntry(chunk string) (CommitRecord, error) {
	lines := strings.SplitN(chunk, "\n", 4)
	if len(lines) < 3 {
		return CommitRecord{}, fmt.Errorf("%w: expected at least 3 lines, got %d", ErrMalformedEntry, len(lines))
	}

	id, ok := cutLabel(lines[0], labelCommit)
	if !ok || id == "" {
		return CommitRecord{}, fmt.Errorf("%w: missing %s line", ErrMalformedEntry, labelCommit)
	}
	author, ok := cutLabel(lines[1], labelAuthor)
	if !ok {
		return CommitRecord{}, fmt.Errorf("%w: missing %s line in %s", ErrMalformedEntry, labelAuthor, id)
	}
	date, ok := cutLabel(lines[2], labelDate)
	if !ok {
		return CommitRecord{}, fmt.Errorf("%w: missing %s line in %s", ErrMalformedEntry, labelDate, id)
	}

	var message string
	if len(lines) == 4 {
		rest := strings.TrimSpace(lines[3])
		if rest != "" {
			message, ok = cutLabel(rest, labelMessage)
			if !ok {
				return CommitRecord{}, fmt.Errorf("%w: missing %s line in %s", ErrMalformedEntry, labelMessage, id)
			}
		}
	}

	return CommitRecord{
		Identifier: id,
		Author:     author,
		Date:       date,
		Message:    message,
	}, nil
}

// cutLabel strips a leading field label and trims the remaining value.
func cutLabel(field, label string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(field, " \t"), label)
	if !ok {
		return "", false
	}
	if rest != "" && !strings.ContainsRune(" \t\n", rune(rest[0])) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
