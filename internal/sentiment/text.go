package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown (or the HTML YouTube returns in
// textDisplay) down to plain, whitespace-normalized text without links.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), " ")
	plainText = html.UnescapeString(plainText)
	plainText = RemoveLinks(plainText)

	return strings.Join(strings.Fields(plainText), " ")
}
