package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "newsportal/docs"
	"newsportal/internal/cache"
	"newsportal/internal/captcha"
	"newsportal/internal/config"
	"newsportal/internal/db"
	"newsportal/internal/handlers"
	"newsportal/internal/middleware"
	"newsportal/internal/repositories"
	"newsportal/internal/routes"
	"newsportal/internal/services"
	"newsportal/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Redis ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatal("Ошибка подключения к Redis: ", err)
	}
	cancel()
	store := cache.NewRedisStore(rdb)

	// === Repos ===
	userRepo := repositories.NewUserRepository(conn)
	groupRepo := repositories.NewGroupRepository(conn)
	tagRepo := repositories.NewTagRepository(conn)
	newsRepo := repositories.NewNewsRepository(conn)
	commentRepo := repositories.NewCommentRepository(conn)
	hotRepo := repositories.NewHotNewsRepository(conn)
	bannerRepo := repositories.NewBannerRepository(conn)
	docRepo := repositories.NewDocRepository(conn)
	courseRepo := repositories.NewCourseRepository(conn)

	// === Services ===
	authService := services.NewAuthService()

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	// SMS провайдер (Mobizon) из конфига
	var smsSender services.SmsSender
	if cfg.Mobizon.APIKey != "" {
		smsSender = utils.NewClientWithOptions(
			cfg.Mobizon.APIKey,
			cfg.Mobizon.SenderID,
			cfg.Mobizon.BaseURL,
			cfg.Mobizon.DryRun,
		)
	} else {
		log.Printf("[app] mobizon.api_key is empty, sms codes are stored but not delivered")
	}

	v := cfg.Verification
	verifyService := services.NewVerificationService(
		store,
		captcha.NewImageGenerator(4),
		smsSender,
		userRepo,
		services.VerificationOptions{
			ImageCodeTTL:    v.ImageCodeTTL,
			SmsCodeDigits:   v.SmsCodeDigits,
			SmsCodeTTL:      v.SmsCodeTTL,
			SmsSendInterval: v.SmsSendInterval,
			SmsTemplateID:   v.SmsTemplateID,
		},
	)
	sessionService := services.NewSessionService(store, services.SessionOptions{
		Secret:      []byte(cfg.Session.Secret),
		RememberTTL: cfg.Session.RememberTTL,
		BrowserTTL:  cfg.Session.BrowserTTL,
	})
	accountService := services.NewAccountService(
		userRepo,
		verifyService,
		authService,
		sessionService,
		emailService,
		services.AccountOptions{
			SmsCodeDigits: v.SmsCodeDigits,
			RememberTTL:   cfg.Session.RememberTTL,
		},
	)
	userService := services.NewUserService(userRepo, groupRepo)
	newsService := services.NewNewsService(newsRepo, tagRepo, hotRepo, bannerRepo, commentRepo)
	newsAdminService := services.NewNewsAdminService(tagRepo, hotRepo, newsRepo, bannerRepo)
	docService := services.NewDocService(docRepo, cfg.Server.SiteDomain)
	courseService := services.NewCourseService(courseRepo)

	// === Object storage ===
	m := cfg.Minio
	minioCtx, cancelMinio := context.WithTimeout(context.Background(), 10*time.Second)
	minioClient, err := services.NewMinioClient(minioCtx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.Secure)
	cancelMinio()
	if err != nil {
		log.Fatal("Ошибка подключения к MinIO: ", err)
	}
	uploadService := services.NewUploadService(minioClient, m.Bucket, m.PublicBaseURL)

	// === Handlers ===
	h := routes.Handlers{
		Verify: handlers.NewVerifyHandler(verifyService),
		Auth: handlers.NewAuthHandler(accountService, sessionService, handlers.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		}),
		News:      handlers.NewNewsHandler(newsService),
		Docs:      handlers.NewDocHandler(docService, courseService),
		AdminNews: handlers.NewAdminNewsHandler(newsAdminService, uploadService),
		AdminDocs: handlers.NewAdminDocHandler(docService, courseService, uploadService),
		Users:     handlers.NewUserHandler(userService),
	}

	// === Metrics ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// === Gin ===
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Fatal("Некорректный server.trusted_proxies: ", err)
	}
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(metrics.Middleware())
	router.Use(middleware.SessionAuth(sessionService, userService, cfg.Session.CookieName))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.GET("/healthz", healthz(conn.PingContext, func(ctx context.Context) error { return rdb.Ping(ctx).Err() }))

	imageLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.ImageCodesPerSecond, cfg.RateLimit.ImageCodesBurst)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go imageLimiter.Run(sweepCtx, time.Minute)

	routes.SetupRoutes(router, h, routes.Guards{
		ImageCodes:  imageLimiter,
		Permissions: userService,
	})

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Сервер запущен на %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Остановка сервера...")

	ctx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
}

func healthz(checks ...func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.Printf("[app][healthz] %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
