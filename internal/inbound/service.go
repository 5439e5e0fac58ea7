package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/monitoring"
)

// 接收前置校验失败的终止性错误。任何一个被触发时
// 都不会产生部分持久化状态。
var (
	ErrServiceSuspended  = errors.New("service suspended")
	ErrMissingRecipient  = errors.New("missing recipient address")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrMailboxDisabled   = errors.New("mailbox disabled")
)

// SettingSource 投递设置查询接口。
type SettingSource interface {
	Query(ctx context.Context) (*domain.Setting, error)
}

// AccountSource 收件账户解析接口，查找须包含已软删除的账户。
type AccountSource interface {
	SelectByEmailIncludeDel(ctx context.Context, email string) (*domain.Account, error)
}

// UserSource 用户查询接口。
type UserSource interface {
	SelectByID(ctx context.Context, userID int64) (*domain.User, error)
}

// RoleSource 角色权限查询接口。
type RoleSource interface {
	SelectByUserID(ctx context.Context, userID int64) (*domain.Role, error)
	HasAvailDomainPerm(availDomain, email string) bool
}

// EmailSink 邮件两阶段持久化接口。
type EmailSink interface {
	// Receive 第一阶段：以 SAVING 状态创建记录并分配身份。
	Receive(ctx context.Context, email *domain.Email, embedded []*domain.Attachment, publicDomain string) (*domain.Email, error)

	// CompleteReceive 第二阶段：落定最终状态并使记录可见。
	CompleteReceive(ctx context.Context, status int, emailID int64) (*domain.Email, error)
}

// AttachmentSink 附件持久化接口（尽力而为）。
type AttachmentSink interface {
	HasBackingStore(ctx context.Context) bool
	AddAttachments(ctx context.Context, atts []*domain.Attachment) error
}

// Notifier 通知转发接口（尽力而为）。
type Notifier interface {
	Forward(ctx context.Context, email *domain.Email) error
}

// recipientKind 收件方的三种封闭形态，解析一次后分派，
// 管理员邮箱跳过域名与封禁检查。
type recipientKind int

const (
	recipientNone recipientKind = iota // 无对应账户
	recipientAdmin
	recipientRegular
)

// Service 入站邮件接收编排器。
// 所有协作方调用同步串行执行；附件持久化与通知转发的失败
// 被捕获并记录，不回滚主记录。
type Service struct {
	settings   SettingSource
	accounts   AccountSource
	users      UserSource
	roles      RoleSource
	emails     EmailSink
	atts       AttachmentSink
	notifier   Notifier
	adminEmail string
	log        *zap.Logger
	metrics    *monitoring.Metrics
}

// Dependencies 编排器依赖项。Notifier 与 Metrics 可为空。
type Dependencies struct {
	Settings    SettingSource
	Accounts    AccountSource
	Users       UserSource
	Roles       RoleSource
	Emails      EmailSink
	Attachments AttachmentSink
	Notifier    Notifier
	AdminEmail  string
	Logger      *zap.Logger
	Metrics     *monitoring.Metrics
}

// NewService 创建接收编排器。
func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		settings:   deps.Settings,
		accounts:   deps.Accounts,
		users:      deps.Users,
		roles:      deps.Roles,
		emails:     deps.Emails,
		atts:       deps.Attachments,
		notifier:   deps.Notifier,
		adminEmail: strings.ToLower(strings.TrimSpace(deps.AdminEmail)),
		log:        log,
		metrics:    deps.Metrics,
	}
}

// Receive 接收一封中转回调的入站邮件并返回完成后的邮件记录。
//
// 前置校验（设置、收件人、账户、域名权限、封禁规则）任一失败
// 即返回错误且不写入任何记录；校验通过后记录经两阶段写入，
// 附件存储与通知转发失败不会影响返回结果。
func (s *Service) Receive(ctx context.Context, payload *domain.InboundPayload) (*domain.Email, error) {
	setting, err := s.settings.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("query delivery settings: %w", err)
	}
	if setting.Receive == domain.SwitchClose {
		return nil, ErrServiceSuspended
	}

	if payload.Addresses == nil {
		return nil, ErrMissingRecipient
	}
	addresses := payload.Addresses
	to, ok := addresses.To.First()
	if !ok || strings.TrimSpace(to.Address) == "" {
		return nil, ErrMissingRecipient
	}
	toEmail := strings.ToLower(strings.TrimSpace(to.Address))

	account, err := s.accounts.SelectByEmailIncludeDel(ctx, toEmail)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("resolve recipient account: %w", err)
	}
	if account == nil && setting.NoRecipient == domain.SwitchClose {
		return nil, ErrRecipientNotFound
	}

	kind, err := s.classifyRecipient(ctx, account)
	if err != nil {
		return nil, err
	}
	if kind == recipientRegular {
		if err := s.checkPermissions(ctx, account, toEmail, payload); err != nil {
			return nil, err
		}
	}

	all, embedded, err := extractAttachments(payload)
	if err != nil {
		return nil, err
	}

	email := s.buildEmail(payload, to, toEmail, account, embedded, setting.R2Domain)

	emailRow, err := s.emails.Receive(ctx, email, embedded, setting.R2Domain)
	if err != nil {
		return nil, fmt.Errorf("persist email: %w", err)
	}

	for _, att := range all {
		att.EmailID = emailRow.EmailID
		att.UserID = emailRow.UserID
		att.AccountID = emailRow.AccountID
	}

	if len(all) > 0 && s.atts != nil && s.atts.HasBackingStore(ctx) {
		s.bestEffort("save attachments", func() error {
			return s.atts.AddAttachments(ctx, all)
		})
	}

	finalStatus := domain.EmailStatusReceived
	if account == nil {
		finalStatus = domain.EmailStatusUnassigned
	}
	emailRow, err = s.emails.CompleteReceive(ctx, finalStatus, emailRow.EmailID)
	if err != nil {
		return nil, fmt.Errorf("complete email receive: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMailReceived(finalStatus)
	}

	if setting.RuleType == domain.RuleTypeRule && setting.RuleEmail != "" {
		if !containsFold(splitList(setting.RuleEmail), toEmail) {
			return emailRow, nil
		}
	}

	if setting.TgBotStatus == domain.SwitchOpen && setting.TgChatID != "" && s.notifier != nil {
		s.bestEffort("telegram forward", func() error {
			return s.notifier.Forward(ctx, emailRow)
		})
	}

	return emailRow, nil
}

// classifyRecipient 将收件方解析为三种封闭形态之一。
func (s *Service) classifyRecipient(ctx context.Context, account *domain.Account) (recipientKind, error) {
	if account == nil {
		return recipientNone, nil
	}
	user, err := s.users.SelectByID(ctx, account.UserID)
	if err != nil {
		return recipientNone, fmt.Errorf("resolve account owner: %w", err)
	}
	if s.adminEmail != "" && strings.EqualFold(user.Email, s.adminEmail) {
		return recipientAdmin, nil
	}
	return recipientRegular, nil
}

// checkPermissions 对普通账户执行域名权限与封禁规则检查。
// 封禁类型为 CONTENT 时会就地清空载荷内容，
// 必须发生在附件抽取之前。
func (s *Service) checkPermissions(ctx context.Context, account *domain.Account, toEmail string, payload *domain.InboundPayload) error {
	role, err := s.roles.SelectByUserID(ctx, account.UserID)
	if err != nil {
		return fmt.Errorf("resolve role permissions: %w", err)
	}
	if !s.roles.HasAvailDomainPerm(role.AvailDomain, toEmail) {
		return ErrMailboxDisabled
	}
	sender := ""
	if payload.Addresses != nil {
		sender = payload.Addresses.From.Address
	}
	if !evaluateBanRules(parseBanRules(role.BanEmail), role.BanEmailType, sender, payload) {
		if s.metrics != nil {
			s.metrics.RecordMailRejected()
		}
		return ErrMailboxDisabled
	}
	return nil
}

// buildEmail 由载荷、已解析收件人与内嵌附件构造邮件记录。
// 内联引用重写在此完成，落库的 content 即重写后的形态。
func (s *Service) buildEmail(payload *domain.InboundPayload, to domain.Address, toEmail string, account *domain.Account, embedded []*domain.Attachment, publicDomain string) *domain.Email {
	addresses := payload.Addresses
	from := addresses.From

	var html, text string
	if payload.Body != nil {
		html = payload.Body.HTML
		text = payload.Body.Text
	}
	html = rewriteInlineRefs(html, embedded, publicDomain)

	subject := payload.Subject
	if subject == "" {
		subject = domain.NoSubjectPlaceholder
	}

	toName := to.Name
	if toName == "" {
		toName = emailLocalName(toEmail)
	}
	fromName := from.Name
	if fromName == "" {
		fromName = emailLocalName(from.Address)
	}

	var userID, accountID int64
	if account != nil {
		userID = account.UserID
		accountID = account.AccountID
	}

	now := time.Now().UTC()
	return &domain.Email{
		ToEmail:    toEmail,
		ToName:     toName,
		SendEmail:  from.Address,
		Name:       fromName,
		Subject:    subject,
		Content:    html,
		Text:       text,
		CC:         marshalAddresses(addresses.CC),
		BCC:        marshalAddresses(addresses.BCC),
		Recipient:  marshalAddresses([]domain.Address{to}),
		InReplyTo:  addresses.InReplyTo.First(),
		Relation:   strings.Join(payload.References, " "),
		MessageID:  payload.ID,
		UserID:     userID,
		AccountID:  accountID,
		IsDel:      domain.IsDelDelete,
		Status:     domain.EmailStatusSaving,
		CreatedAt:  now,
		ReceivedAt: now,
	}
}

// bestEffort 执行不影响主流程的附属步骤，失败仅记录日志。
func (s *Service) bestEffort(step string, fn func() error) {
	if err := fn(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordBestEffortFailure(step)
		}
		s.log.Warn("best-effort step failed",
			zap.String("step", step),
			zap.Error(err),
		)
	}
}

// marshalAddresses 将地址列表序列化为 JSON 数组字符串，空列表为 []。
func marshalAddresses(addrs []domain.Address) string {
	if addrs == nil {
		addrs = []domain.Address{}
	}
	data, err := json.Marshal(addrs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// splitList 拆分逗号列表并丢弃空项。
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// containsFold 忽略大小写地判断列表是否包含目标值。
func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}
