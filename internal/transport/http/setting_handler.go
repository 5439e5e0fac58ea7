package httptransport

import (
	"github.com/gin-gonic/gin"

	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/service"
)

// SettingHandler 投递设置管理处理器。
type SettingHandler struct {
	settings *service.SettingService
}

// NewSettingHandler 创建投递设置处理器。
func NewSettingHandler(settings *service.SettingService) *SettingHandler {
	return &SettingHandler{settings: settings}
}

// getSetting 获取当前投递设置。
func (h *SettingHandler) getSetting(c *gin.Context) {
	setting, err := h.settings.Query(c.Request.Context())
	if err != nil {
		InternalError(c, "获取投递设置失败")
		return
	}
	Success(c, setting)
}

// updateSettingInput 投递设置更新请求体。
type updateSettingInput struct {
	Receive     *int    `json:"receive"`
	NoRecipient *int    `json:"noRecipient"`
	R2Domain    *string `json:"r2Domain"`
	RuleType    *int    `json:"ruleType"`
	RuleEmail   *string `json:"ruleEmail"`
	TgBotStatus *int    `json:"tgBotStatus"`
	TgChatID    *string `json:"tgChatId"`
}

// updateSetting 更新投递设置，未出现的字段保持原值。
func (h *SettingHandler) updateSetting(c *gin.Context) {
	var input updateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "无效的请求参数")
		return
	}

	setting, err := h.settings.Query(c.Request.Context())
	if err != nil {
		InternalError(c, "获取投递设置失败")
		return
	}

	if input.Receive != nil {
		if !validSwitch(*input.Receive) {
			BadRequest(c, "无效的接收开关取值")
			return
		}
		setting.Receive = *input.Receive
	}
	if input.NoRecipient != nil {
		if !validSwitch(*input.NoRecipient) {
			BadRequest(c, "无效的无主邮件开关取值")
			return
		}
		setting.NoRecipient = *input.NoRecipient
	}
	if input.R2Domain != nil {
		setting.R2Domain = *input.R2Domain
	}
	if input.RuleType != nil {
		if *input.RuleType != domain.RuleTypeAll && *input.RuleType != domain.RuleTypeRule {
			BadRequest(c, "无效的转发规则类型")
			return
		}
		setting.RuleType = *input.RuleType
	}
	if input.RuleEmail != nil {
		setting.RuleEmail = *input.RuleEmail
	}
	if input.TgBotStatus != nil {
		if !validSwitch(*input.TgBotStatus) {
			BadRequest(c, "无效的机器人开关取值")
			return
		}
		setting.TgBotStatus = *input.TgBotStatus
	}
	if input.TgChatID != nil {
		setting.TgChatID = *input.TgChatID
	}

	if err := h.settings.Update(c.Request.Context(), setting); err != nil {
		InternalError(c, "保存投递设置失败")
		return
	}

	Success(c, setting)
}

// validSwitch 判断开关取值是否合法。
func validSwitch(v int) bool {
	return v == domain.SwitchOpen || v == domain.SwitchClose
}
