package menu

import (
	"strings"
	"unicode/utf8"
)

// MessageLimit is the Telegram per-message text limit.
const MessageLimit = 4096

// SplitMessage splits text into chunks of at most limit bytes, cutting only at line boundaries.
// Joining the chunks with "\n" yields text again. A single line longer than limit is the
// exception: it is cut at rune boundaries and its pieces are emitted as separate chunks.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		started bool
	)

	flush := func() {
		chunks = append(chunks, current.String())
		current.Reset()
		started = false
	}

	for _, line := range strings.Split(text, "\n") {
		if len(line) > limit {
			if started {
				flush()
			}
			pieces := splitRunes(line, limit)
			chunks = append(chunks, pieces[:len(pieces)-1]...)
			current.WriteString(pieces[len(pieces)-1])
			started = true
			continue
		}

		if !started {
			current.WriteString(line)
			started = true
			continue
		}

		if current.Len()+1+len(line) > limit {
			flush()
			current.WriteString(line)
			started = true
			continue
		}

		current.WriteByte('\n')
		current.WriteString(line)
	}

	if started {
		flush()
	}

	return chunks
}

func splitRunes(line string, limit int) []string {
	var pieces []string
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			_, size := utf8.DecodeRuneInString(line)
			cut = size
		}
		pieces = append(pieces, line[:cut])
		line = line[cut:]
	}
	return append(pieces, line)
}
