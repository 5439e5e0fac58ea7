package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/inbound"
)

// InboundHandler 入站邮件回调处理器。
type InboundHandler struct {
	inbound *inbound.Service
	log     *zap.Logger
}

// NewInboundHandler 创建入站回调处理器。
func NewInboundHandler(svc *inbound.Service, log *zap.Logger) *InboundHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InboundHandler{inbound: svc, log: log}
}

// receiveEmail 接收邮件中转服务的回调。
// 非法 JSON 与缺失 addresses 的载荷在进入编排器之前拒绝。
func (h *InboundHandler) receiveEmail(c *gin.Context) {
	var payload domain.InboundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		BadRequest(c, "无效的请求载荷")
		return
	}
	if payload.Addresses == nil {
		BadRequest(c, "缺少 addresses 字段")
		return
	}

	email, err := h.inbound.Receive(c.Request.Context(), &payload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	Success(c, email)
}

// writeError 将编排器错误映射为客户端响应。
// 前置校验失败不产生任何持久化状态，按语义映射状态码；
// 其余错误视为服务器内部错误。
func (h *InboundHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inbound.ErrServiceSuspended):
		Forbidden(c, err.Error())
	case errors.Is(err, inbound.ErrMissingRecipient):
		BadRequest(c, err.Error())
	case errors.Is(err, inbound.ErrRecipientNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, inbound.ErrMailboxDisabled):
		Forbidden(c, err.Error())
	default:
		h.log.Error("inbound email ingestion failed", zap.Error(err))
		InternalError(c, err.Error())
	}
}
