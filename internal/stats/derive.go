package stats

import (
	"strings"
)

const (
	wordsPerMinute = 200
	fenceMarker    = "```"
)

// WordCount counts whitespace-separated words in a post body.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// ReadingMinutes estimates reading time as ceiling division of the word
// count by 200 words per minute.
func ReadingMinutes(body string) int {
	words := WordCount(body)
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// CodeSnippetCount counts fenced code blocks by pairing triple-backtick
// markers; an unpaired trailing fence is ignored.
func CodeSnippetCount(body string) int {
	return strings.Count(body, fenceMarker) / 2
}
