// Package render converts model output markdown into HTML for transcript
// export.
package render

import (
	"strings"

	"github.com/russross/blackfriday"
)

func ToHTML(markdown string) string {
	out := blackfriday.MarkdownCommon([]byte(markdown))
	return strings.TrimSpace(string(out))
}
