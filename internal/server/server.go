package server

import (
	"context"
	"net/http"
	"time"

	"fitplatform/internal/auth"
	"fitplatform/internal/config"
	"fitplatform/internal/email"
	"fitplatform/internal/feedback"
	"fitplatform/internal/goal"
	"fitplatform/internal/notification"
	"fitplatform/internal/progress"
	"fitplatform/internal/registration"
	"fitplatform/internal/schedule"
	"fitplatform/internal/training"
	"fitplatform/internal/user"
	"fitplatform/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter Limiter
}

type handlers struct {
	users         *user.Handler
	sessions      *training.Handler
	schedules     *schedule.Handler
	registrations *registration.Handler
	wallets       *wallet.Handler
	goals         *goal.Handler
	progress      *progress.Handler
	feedback      *feedback.Handler
	notifications *notification.Handler
}

// New wires repositories, services and handlers onto a gin router. rdb may be nil,
// in which case rate limits are kept per process.
func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, mailer *email.Service) *Server {
	h := buildHandlers(db, cfg, mailer)
	limiter := newLimiter(rdb, cfg)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(limiter))

	registerRoutes(router, h, cfg.JWTSecret, mailer)

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func buildHandlers(db *sqlx.DB, cfg *config.Config, mailer *email.Service) handlers {
	limits := training.Limits{
		MinDuration:     cfg.Policy.MinTrainingDuration,
		MaxDuration:     cfg.Policy.MaxTrainingDuration,
		MaxParticipants: cfg.Policy.MaxParticipants,
		DefaultCurrency: cfg.Policy.DefaultCurrency,
		Location:        cfg.Policy.Location(),
	}

	userRepo := user.NewRepository(db)
	sessionRepo := training.NewRepository(db)

	walletService := wallet.NewService(wallet.NewRepository(db))
	userService := user.NewService(userRepo, walletService, cfg.JWTSecret)
	notificationService := notification.NewService(notification.NewRepository(db), userRepo, mailer)
	sessionService := training.NewService(sessionRepo, limits)
	scheduleService := schedule.NewService(schedule.NewRepository(db), sessionRepo, limits)
	registrationService := registration.NewService(
		registration.NewRepository(db),
		sessionRepo,
		userRepo,
		notificationService,
		mailer,
		registration.Policy{
			CancellationWindow:    cfg.Policy.CancellationWindow,
			AttendanceGracePeriod: cfg.Policy.AttendanceGracePeriod,
		},
	)
	goalService := goal.NewService(goal.NewRepository(db), userRepo, notificationService, mailer)
	progressService := progress.NewService(progress.NewRepository(db), goalService, registrationService)
	feedbackService := feedback.NewService(feedback.NewRepository(db), sessionService, registrationService, notificationService)

	return handlers{
		users:         user.NewHandler(userService),
		sessions:      training.NewHandler(sessionService),
		schedules:     schedule.NewHandler(scheduleService),
		registrations: registration.NewHandler(registrationService),
		wallets:       wallet.NewHandler(walletService),
		goals:         goal.NewHandler(goalService),
		progress:      progress.NewHandler(progressService),
		feedback:      feedback.NewHandler(feedbackService),
		notifications: notification.NewHandler(notificationService),
	}
}

func registerRoutes(router *gin.Engine, h handlers, jwtSecret string, mailer EmailQueue) {
	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	public := router.Group("/")
	{
		public.POST("/auth/register", h.users.Register)
		public.POST("/auth/login", h.users.Login)
		public.POST("/auth/refresh", h.users.RefreshToken)

		public.GET("/sessions", h.sessions.ListUpcoming)
		public.GET("/sessions/:id", h.sessions.GetSession)
		public.GET("/sessions/public/:publicID", h.sessions.GetSessionByPublicID)
		public.GET("/sessions/:id/feedback", h.feedback.ListForSession)
	}

	authMiddleware := auth.AuthMiddleware(jwtSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.users.GetMe)
		protected.GET("/calendar", h.sessions.Calendar)

		protected.POST("/sessions/:id/register", h.registrations.Register)
		protected.POST("/sessions/:id/feedback", h.feedback.Submit)
		protected.GET("/registrations", h.registrations.ListMine)
		protected.POST("/registrations/:id/cancel", h.registrations.Cancel)
		protected.POST("/registrations/:id/pay", h.registrations.Pay)

		protected.GET("/wallet", h.wallets.GetBalance)
		protected.POST("/wallet/topup", h.wallets.TopUp)
		protected.GET("/wallet/transactions", h.wallets.ListTransactions)

		protected.POST("/goals", h.goals.CreateGoal)
		protected.GET("/goals", h.goals.ListGoals)
		protected.GET("/goals/:id", h.goals.GetGoal)
		protected.PATCH("/goals/:id/progress", h.goals.UpdateProgress)
		protected.POST("/goals/:id/cancel", h.goals.CancelGoal)
		protected.GET("/achievements", h.goals.ListAchievements)

		protected.POST("/progress", h.progress.AddRecord)
		protected.GET("/progress", h.progress.ListRecords)
		protected.GET("/progress/summary", h.progress.GetSummary)

		protected.GET("/notifications", h.notifications.List)
		protected.GET("/notifications/unread-count", h.notifications.UnreadCount)
		protected.POST("/notifications/:id/read", h.notifications.MarkRead)
		protected.POST("/notifications/read-all", h.notifications.MarkAllRead)
	}

	trainer := router.Group("/")
	trainer.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer, auth.RoleAdmin))
	{
		trainer.POST("/sessions", h.sessions.CreateSession)
		trainer.GET("/trainer/sessions", h.sessions.ListMine)
		trainer.POST("/sessions/:id/submit", h.sessions.Submit)
		trainer.PATCH("/sessions/:id/status", h.sessions.ChangeStatus)
		trainer.GET("/sessions/:id/registrations", h.registrations.ListForSession)
		trainer.POST("/registrations/:id/attendance", h.registrations.MarkAttendance)

		trainer.POST("/schedules", h.schedules.CreateSchedule)
		trainer.GET("/schedules", h.schedules.ListMine)
		trainer.GET("/schedules/:id", h.schedules.GetSchedule)
		trainer.DELETE("/schedules/:id", h.schedules.DeleteSchedule)
		trainer.GET("/schedules/:id/occurrences", h.schedules.Preview)
		trainer.POST("/schedules/:id/expand", h.schedules.Expand)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/sessions/:id/approve", h.sessions.Approve)
		admin.POST("/sessions/:id/reject", h.sessions.Reject)
		admin.GET("/feedback", h.feedback.ListPending)
		admin.POST("/feedback/:id/approve", h.feedback.Approve)
		admin.POST("/feedback/:id/reject", h.feedback.Reject)
		admin.GET("/stats/registrations", h.registrations.Stats)
		admin.POST("/notifications", h.notifications.Send)
		admin.POST("/email/test", TestEmail(mailer))
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown. Background upkeep stops with ctx.
func (s *Server) Start(ctx context.Context) error {
	if rl, ok := s.limiter.(*RateLimiter); ok {
		go rl.Run(ctx)
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
