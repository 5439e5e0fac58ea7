package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mailgate/backend/internal/domain"
)

func TestFormatEmail(t *testing.T) {
	t.Run("头部字段以 HTML 加粗呈现", func(t *testing.T) {
		msg := FormatEmail(&domain.Email{
			SendEmail: "a@x.com",
			Name:      "Alice",
			ToEmail:   "b@y.com",
			Subject:   "hello",
			Text:      "plain body",
		})

		assert.Contains(t, msg, "<b>From:</b> Alice &lt;a@x.com&gt;")
		assert.Contains(t, msg, "<b>To:</b> b@y.com")
		assert.Contains(t, msg, "<b>Subject:</b> hello")
		assert.Contains(t, msg, "plain body")
	})

	t.Run("显示名与地址相同时只展示地址", func(t *testing.T) {
		msg := FormatEmail(&domain.Email{
			SendEmail: "a@x.com",
			Name:      "a@x.com",
			ToEmail:   "b@y.com",
		})

		assert.Contains(t, msg, "<b>From:</b> a@x.com\n")
	})

	t.Run("纯文本缺失时回退到 HTML 正文", func(t *testing.T) {
		msg := FormatEmail(&domain.Email{
			SendEmail: "a@x.com",
			ToEmail:   "b@y.com",
			Content:   "<p>hi</p>",
		})

		assert.Contains(t, msg, "&lt;p&gt;hi&lt;/p&gt;")
	})

	t.Run("特殊字符被转义", func(t *testing.T) {
		msg := FormatEmail(&domain.Email{
			SendEmail: "a@x.com",
			ToEmail:   "b@y.com",
			Subject:   "a < b & c > d",
		})

		assert.Contains(t, msg, "a &lt; b &amp; c &gt; d")
	})

	t.Run("超长正文被截断", func(t *testing.T) {
		msg := FormatEmail(&domain.Email{
			SendEmail: "a@x.com",
			ToEmail:   "b@y.com",
			Text:      strings.Repeat("x", 10000),
		})

		assert.LessOrEqual(t, len(msg), maxMessageLength+100)
		assert.Contains(t, msg, "...")
	})
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;", escapeHTML("&<>"))
	assert.Equal(t, "plain", escapeHTML("plain"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab\n\n...", truncate("abcdef", 2))
	// 按 rune 截断，多字节字符不被破坏
	assert.Equal(t, "你好\n\n...", truncate("你好世界", 2))
}
