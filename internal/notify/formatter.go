package notify

import (
	"fmt"
	"strings"

	"mailgate/backend/internal/domain"
)

// Telegram 单条消息上限为 4096 字符，预留标记空间。
const maxMessageLength = 4000

// FormatEmail 将邮件记录格式化为 Telegram HTML 消息。
func FormatEmail(email *domain.Email) string {
	var sb strings.Builder

	from := escapeHTML(email.SendEmail)
	if email.Name != "" && email.Name != email.SendEmail {
		from = fmt.Sprintf("%s &lt;%s&gt;", escapeHTML(email.Name), escapeHTML(email.SendEmail))
	}

	sb.WriteString(fmt.Sprintf("<b>From:</b> %s\n", from))
	sb.WriteString(fmt.Sprintf("<b>To:</b> %s\n", escapeHTML(email.ToEmail)))
	sb.WriteString(fmt.Sprintf("<b>Subject:</b> %s\n\n", escapeHTML(email.Subject)))

	body := email.Text
	if body == "" {
		body = email.Content
	}
	sb.WriteString(escapeHTML(truncate(body, maxMessageLength-sb.Len()-50)))

	return sb.String()
}

// escapeHTML 转义 Telegram HTML 模式的特殊字符。
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// truncate 按 rune 截断文本并追加省略标记。
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "\n\n..."
}
