package domain

import (
	"bytes"
	"encoding/json"
)

// InboundPayload 是邮件中转服务回调的 JSON 载荷（外部、不可信）。
// 字段形态宽松：to 可能是对象或数组，references / in_reply_to
// 可能是字符串或字符串数组，统一在反序列化时归一。
type InboundPayload struct {
	ID            string            `json:"id"`
	Addresses     *PayloadAddresses `json:"addresses"`
	Subject       string            `json:"subject"`
	Body          *PayloadBody      `json:"body"`
	Attachments   []FilePart        `json:"attachments"`
	EmbeddedFiles []FilePart        `json:"embedded_files"`
	References    StringList        `json:"references"`
}

// PayloadAddresses 载荷的地址块。
type PayloadAddresses struct {
	From      Address     `json:"from"`
	To        AddressList `json:"to"`
	CC        []Address   `json:"cc"`
	BCC       []Address   `json:"bcc"`
	InReplyTo StringList  `json:"in_reply_to"`
}

// PayloadBody 载荷正文。
type PayloadBody struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Address 一个邮件地址及其显示名。
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// FilePart 附件或内嵌文件的原始条目，data 为 base64 编码。
type FilePart struct {
	Data        string `json:"data"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	CID         string `json:"cid"`
}

// AddressList 兼容单个地址对象与地址数组两种形态。
type AddressList []Address

// UnmarshalJSON 实现宽松反序列化：对象归一为单元素数组。
func (l *AddressList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var addrs []Address
		if err := json.Unmarshal(data, &addrs); err != nil {
			return err
		}
		*l = addrs
		return nil
	}
	var addr Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return err
	}
	*l = AddressList{addr}
	return nil
}

// First 返回首个地址；列表为空时返回零值与 false。
func (l AddressList) First() (Address, bool) {
	if len(l) == 0 {
		return Address{}, false
	}
	return l[0], true
}

// StringList 兼容单个字符串与字符串数组两种形态。
type StringList []string

// UnmarshalJSON 实现宽松反序列化：字符串归一为单元素数组。
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = StringList{s}
	return nil
}

// First 返回首个元素，列表为空时返回空字符串。
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
