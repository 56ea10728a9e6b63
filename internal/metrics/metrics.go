package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitplatform_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitplatform_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitplatform_registration_cancellations_total",
			Help: "Total number of cancelled registrations",
		},
	)

	AttendanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_attendance_marks_total",
			Help: "Attendance marks by resulting status",
		},
		[]string{"status"},
	)

	OccurrencesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_schedule_occurrences_total",
			Help: "Sessions materialized from recurring schedules",
		},
		[]string{"pattern"},
	)

	GoalsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_goals_completed_total",
			Help: "Goals that reached their target",
		},
		[]string{"goal_type"},
	)

	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_feedback_total",
			Help: "Feedback submissions and moderation decisions",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitplatform_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitplatform_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitplatform_session_payments_total",
			Help: "Session payments by result (paid, pending, refunded)",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation() {
	CancellationsTotal.Inc()
}

func RecordAttendance(status string) {
	AttendanceTotal.WithLabelValues(status).Inc()
}

func RecordOccurrences(pattern string, n int) {
	OccurrencesGeneratedTotal.WithLabelValues(pattern).Add(float64(n))
}

func RecordGoalCompleted(goalType string) {
	GoalsCompletedTotal.WithLabelValues(goalType).Inc()
}

func RecordFeedback(status string) {
	FeedbackTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordPayment(result string) {
	PaymentsTotal.WithLabelValues(result).Inc()
}
