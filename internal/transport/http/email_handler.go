package httptransport

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/service"
)

// EmailHandler 邮件只读查询处理器。
type EmailHandler struct {
	emails *service.EmailService
	atts   *service.AttachmentService
}

// NewEmailHandler 创建邮件查询处理器。
func NewEmailHandler(emails *service.EmailService, atts *service.AttachmentService) *EmailHandler {
	return &EmailHandler{emails: emails, atts: atts}
}

// listEmails 列出某账户名下已完成接收的邮件。
func (h *EmailHandler) listEmails(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		BadRequest(c, "无效的账户 ID")
		return
	}

	emails, err := h.emails.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		InternalError(c, "获取邮件列表失败")
		return
	}

	Success(c, emails)
}

// getEmail 获取单封邮件详情。
func (h *EmailHandler) getEmail(c *gin.Context) {
	emailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || emailID <= 0 {
		BadRequest(c, "无效的邮件 ID")
		return
	}

	email, err := h.emails.Get(c.Request.Context(), emailID)
	if err != nil {
		if errors.Is(err, domain.ErrEmailNotFound) {
			NotFound(c, "邮件不存在")
			return
		}
		InternalError(c, "获取邮件失败")
		return
	}

	Success(c, email)
}

// listEmailAttachments 列出某邮件的附件元数据。
func (h *EmailHandler) listEmailAttachments(c *gin.Context) {
	emailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || emailID <= 0 {
		BadRequest(c, "无效的邮件 ID")
		return
	}

	atts, err := h.atts.ListByEmail(c.Request.Context(), emailID)
	if err != nil {
		InternalError(c, "获取附件列表失败")
		return
	}

	Success(c, atts)
}
