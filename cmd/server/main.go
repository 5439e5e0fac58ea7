// mailgate 入站邮件网关服务：接收邮件中转回调，
// 持久化邮件记录与附件，并按配置转发通知。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailgate/backend/internal/blob"
	"mailgate/backend/internal/cache"
	"mailgate/backend/internal/config"
	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/inbound"
	"mailgate/backend/internal/logger"
	"mailgate/backend/internal/monitoring"
	"mailgate/backend/internal/notify"
	"mailgate/backend/internal/service"
	"mailgate/backend/internal/storage/memory"
	redisstore "mailgate/backend/internal/storage/redis"
	sqlstore "mailgate/backend/internal/storage/sql"
	httptransport "mailgate/backend/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		File:        cfg.Log.File,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting mailgate server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 存储层：配置了数据库时走 SQL，否则用内存存储（开发环境）。
	var store domain.Store
	if cfg.Database.Type != "" {
		sqlStore, err := sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize database storage: %v", err))
		}
		store = sqlStore
		log.Info("using database storage", zap.String("type", cfg.Database.Type))
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}
	defer store.Close()

	metrics := monitoring.NewMetrics()

	// 可选的 Redis 设置缓存。
	var settingCache service.SettingCache
	if cfg.Redis.Enabled {
		rcache, err := redisstore.NewSettingCache(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.SettingTTL,
			log,
		)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize Redis cache: %v", err))
		}
		defer rcache.Close()
		settingCache = rcache
	} else {
		settingCache = cache.NewLocalSettingCache(cfg.Redis.SettingTTL)
	}

	// 附件对象存储，未配置时附件仅保留元数据。
	blobStore, err := blob.NewFromConfig(context.Background(), blob.Config{
		Backend:         cfg.Blob.Backend,
		FSRoot:          cfg.Blob.Root,
		Bucket:          cfg.Blob.Bucket,
		Region:          cfg.Blob.Region,
		Endpoint:        cfg.Blob.Endpoint,
		AccessKeyID:     cfg.Blob.AccessKey,
		SecretAccessKey: cfg.Blob.SecretKey,
		ForcePathStyle:  cfg.Blob.PathStyle,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize blob storage: %v", err))
	}
	if blobStore != nil {
		log.Info("blob storage initialized", zap.String("backend", cfg.Blob.Backend))
	} else {
		log.Warn("no blob backend configured, attachment bytes will not be persisted")
	}

	// 服务层
	settingService := service.NewSettingService(store, settingCache, log)
	accountService := service.NewAccountService(store)
	userService := service.NewUserService(store)
	roleService := service.NewRoleService(store)
	emailService := service.NewEmailService(store, log)
	attachmentService := service.NewAttachmentService(store, blobStore, log, metrics)

	// Telegram 转发，未配置令牌时不启用。
	var notifier inbound.Notifier
	tgNotifier, err := notify.NewTelegramNotifier(cfg.Telegram.Token, settingService, log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize telegram notifier: %v", err))
	}
	if tgNotifier != nil {
		notifier = tgNotifier
		log.Info("telegram forwarding enabled")
	}

	inboundService := inbound.NewService(inbound.Dependencies{
		Settings:    settingService,
		Accounts:    accountService,
		Users:       userService,
		Roles:       roleService,
		Emails:      emailService,
		Attachments: attachmentService,
		Notifier:    notifier,
		AdminEmail:  cfg.Ingest.AdminEmail,
		Logger:      log,
		Metrics:     metrics,
	})

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:            cfg,
		InboundService:    inboundService,
		EmailService:      emailService,
		AttachmentService: attachmentService,
		SettingService:    settingService,
		Store:             store,
		Metrics:           metrics,
		Logger:            log,
	})

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
