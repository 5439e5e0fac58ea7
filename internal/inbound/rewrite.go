package inbound

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mailgate/backend/internal/domain"
)

// rewriteInlineRefs 将 HTML 正文中 cid: 形式的内嵌引用重写为
// 公开存储域名下的可访问 URL。不含内嵌引用的内容原样返回；
// HTML 无法解析时同样原样返回，保证该步骤不会使接收失败。
func rewriteInlineRefs(html string, embedded []*domain.Attachment, publicDomain string) string {
	if html == "" || len(embedded) == 0 || publicDomain == "" {
		return html
	}

	byCID := make(map[string]string, len(embedded))
	for _, att := range embedded {
		if att.ContentID != "" {
			byCID["cid:"+att.ContentID] = publicObjectURL(publicDomain, att.Key)
		}
	}
	if len(byCID) == 0 {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	changed := false
	doc.Find("img[src], source[src], video[poster]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"src", "poster"} {
			val, ok := sel.Attr(attr)
			if !ok {
				continue
			}
			if url, hit := byCID[strings.TrimSpace(val)]; hit {
				sel.SetAttr(attr, url)
				changed = true
			}
		}
	})
	if !changed {
		return html
	}

	out, err := doc.Html()
	if err != nil {
		return html
	}
	return out
}

// publicObjectURL 拼接公开存储域名与对象键。
// 域名未携带协议时默认 https。
func publicObjectURL(publicDomain, key string) string {
	base := strings.TrimSuffix(strings.TrimSpace(publicDomain), "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base + "/" + key
}
