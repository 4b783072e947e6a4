package utils

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark-emoji/definition"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns user markup into safe HTML. Callers treat the result as opaque.
type Renderer interface {
	Render(source string) string
}

// MarkdownRenderer renders GFM markdown and sanitizes it with a UGC policy.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownRenderer() *MarkdownRenderer {
	policy := bluemonday.UGCPolicy()
	// Allow images
	policy.AllowImages()
	// Force links to open in new tab
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, emoji.Emoji),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
		policy: policy,
	}
}

func (r *MarkdownRenderer) Render(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return template.HTMLEscapeString(source) // Fallback
	}

	sanitized := r.policy.SanitizeBytes(buf.Bytes())
	return EnhanceImages(string(sanitized))
}

// PlainRenderer escapes text without interpreting markup.
type PlainRenderer struct{}

func (PlainRenderer) Render(source string) string {
	return template.HTMLEscapeString(source)
}

var (
	shortcodePattern = regexp.MustCompile(`:[a-z0-9_+\-]+:`)
	emojiDefinitions = definition.Github()
)

// Emojify replaces GitHub shortcodes such as :tada: in plain text. Unknown
// shortcodes stay as written.
func Emojify(text string) string {
	return shortcodePattern.ReplaceAllStringFunc(text, func(code string) string {
		if e, ok := emojiDefinitions.Get(code[1 : len(code)-1]); ok {
			return string(e.Unicode)
		}
		return code
	})
}
