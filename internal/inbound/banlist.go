package inbound

import (
	"strings"

	"mailgate/backend/internal/domain"
)

// ContentDeletedPlaceholder 命中内容封禁规则后正文的占位值。
const ContentDeletedPlaceholder = "The content has been deleted"

// banRuleKind 封禁规则的形态，在解析期一次性分类，
// 避免逐条匹配时反复判断字符串形状。
type banRuleKind int

const (
	banRuleWildcard banRuleKind = iota // "*"：任意发件人
	banRuleDomain                      // 裸域名
	banRuleAddress                     // 完整地址
)

// banRule 一条已分类的封禁规则，value 统一为小写。
type banRule struct {
	kind  banRuleKind
	value string
}

// parseBanRules 解析逗号分隔的封禁列表，丢弃空项。
func parseBanRules(banEmail string) []banRule {
	parts := strings.Split(banEmail, ",")
	rules := make([]banRule, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		switch {
		case token == "*":
			rules = append(rules, banRule{kind: banRuleWildcard})
		case strings.Contains(token, "@"):
			rules = append(rules, banRule{kind: banRuleAddress, value: token})
		default:
			rules = append(rules, banRule{kind: banRuleDomain, value: token})
		}
	}
	return rules
}

// evaluateBanRules 按列表顺序对发件人求值。
// 返回 false 表示拒收；banType 为 CONTENT 时命中规则会就地清空
// 载荷的正文与附件（重复命中为幂等操作），随后继续放行。
func evaluateBanRules(rules []banRule, banType int, sender string, payload *domain.InboundPayload) bool {
	sender = strings.ToLower(strings.TrimSpace(sender))
	senderDomain := emailDomain(sender)

	for _, rule := range rules {
		matched := false
		switch rule.kind {
		case banRuleWildcard:
			matched = true
		case banRuleDomain:
			matched = senderDomain != "" && rule.value == senderDomain
		case banRuleAddress:
			matched = sender != "" && rule.value == sender
		}
		if !matched {
			continue
		}
		if !applyBanType(banType, payload) {
			return false
		}
	}
	return true
}

// applyBanType 对命中规则的载荷应用封禁策略。
// ALL 返回 false 表示整封拒收；CONTENT 清空正文与附件后放行；
// 其余类型放行且不做任何修改。
func applyBanType(banType int, payload *domain.InboundPayload) bool {
	switch banType {
	case domain.BanTypeAll:
		return false
	case domain.BanTypeContent:
		if payload.Body != nil {
			payload.Body.HTML = ContentDeletedPlaceholder
			payload.Body.Text = ContentDeletedPlaceholder
		}
		payload.Attachments = nil
		payload.EmbeddedFiles = nil
	}
	return true
}

// emailDomain 返回地址 @ 之后的域名部分，小写。
func emailDomain(addr string) string {
	idx := strings.LastIndex(addr, "@")
	if idx < 0 || idx == len(addr)-1 {
		return ""
	}
	return strings.ToLower(addr[idx+1:])
}

// emailLocalName 返回地址 @ 之前的本地部分，用作显示名兜底。
func emailLocalName(addr string) string {
	idx := strings.Index(addr, "@")
	if idx <= 0 {
		return addr
	}
	return addr[:idx]
}
