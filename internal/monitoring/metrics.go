package monitoring

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailgate/backend/internal/domain"
)

// Metrics 接收管线的监控指标。
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 接收指标
	MailsReceived      *prometheus.CounterVec // 按最终状态区分
	MailsRejected      prometheus.Counter     // 封禁规则拒收
	BestEffortFailures *prometheus.CounterVec // 附属步骤失败（附件存储 / 通知转发）
	AttachmentBytes    prometheus.Counter
}

// NewMetrics 创建并注册监控指标。
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailgate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		MailsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_mails_received_total",
				Help: "Total number of ingested mails by final status",
			},
			[]string{"status"},
		),
		MailsRejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mailgate_mails_rejected_total",
				Help: "Total number of mails rejected by ban rules",
			},
		),
		BestEffortFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_best_effort_failures_total",
				Help: "Total number of suppressed secondary-step failures",
			},
			[]string{"step"},
		),
		AttachmentBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mailgate_attachment_bytes_total",
				Help: "Total attachment bytes written to the object store",
			},
		),
	}
}

// RecordMailReceived 记录一封完成接收的邮件。
func (m *Metrics) RecordMailReceived(status int) {
	label := "received"
	if status == domain.EmailStatusUnassigned {
		label = "unassigned"
	}
	m.MailsReceived.WithLabelValues(label).Inc()
}

// RecordMailRejected 记录一封被封禁规则拒收的邮件。
func (m *Metrics) RecordMailRejected() {
	m.MailsRejected.Inc()
}

// RecordBestEffortFailure 记录一次被抑制的附属步骤失败。
func (m *Metrics) RecordBestEffortFailure(step string) {
	m.BestEffortFailures.WithLabelValues(step).Inc()
}

// RecordAttachmentBytes 记录写入对象存储的附件字节数。
func (m *Metrics) RecordAttachmentBytes(n int64) {
	m.AttachmentBytes.Add(float64(n))
}

// RecordHTTPRequest 记录一次 HTTP 请求。
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// HTTPHandler 返回 /metrics 端点处理器。
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}
