// Package notify 将接收完成的邮件转发到 Telegram 机器人。
// 转发是尽力而为的附属步骤，失败由调用方记录并抑制。
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	botmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/service"
)

// TelegramNotifier 邮件转发器。目标会话取自当前投递设置，
// 可在运行期通过管理接口变更。
type TelegramNotifier struct {
	bot      *bot.Bot
	settings *service.SettingService
	log      *zap.Logger
}

// NewTelegramNotifier 创建 Telegram 转发器，token 为空时返回 nil。
func NewTelegramNotifier(token string, settings *service.SettingService, log *zap.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, settings: settings, log: log}, nil
}

// Forward 将一封接收完成的邮件发送到配置的会话。
func (n *TelegramNotifier) Forward(ctx context.Context, email *domain.Email) error {
	setting, err := n.settings.Query(ctx)
	if err != nil {
		return fmt.Errorf("query forward settings: %w", err)
	}
	if setting.TgChatID == "" {
		return errors.New("telegram chat id is not configured")
	}

	_, err = n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    setting.TgChatID,
		Text:      FormatEmail(email),
		ParseMode: botmodels.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.log.Debug("email forwarded to telegram",
		zap.Int64("email_id", email.EmailID),
		zap.String("chat_id", setting.TgChatID),
	)
	return nil
}
