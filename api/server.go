package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gavel/adapters/limit"
	redisAdapter "gavel/adapters/redis"
	"gavel/adapters/session"
	"gavel/models"
	"gavel/stores"
)

type ServerImpl struct {
	db           *gorm.DB
	redisClient  *redis.Client
	identities   *stores.IdentityStore
	auctions     *stores.AuctionStore
	sessionStore session.IStore
	events       redisAdapter.IProducer[AuctionEvent]
	logger       *slog.Logger

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化資料庫連線
	db, err := OpenDatabase(config.DB)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}

	// 只有在 session 或異動通知需要時才建立 Redis 連線
	var redisClient *redis.Client
	if config.Session.Backend == SessionBackendRedis || config.Events.Stream != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	// 初始化 session 儲存
	var sessionStore session.IStore
	switch config.Session.Backend {
	case SessionBackendRedis:
		sessionStore = redisAdapter.NewStore(
			redisClient,
			redisAdapter.WithStorePrefix(config.Redis.KeyPrefix+"session:"),
			redisAdapter.WithStoreTTL(config.Session.MaxAge()),
		)
	case SessionBackendMemory, "":
		sessionStore = session.NewMemoryStore(config.Session.MaxAge())
	default:
		return nil, fmt.Errorf("[%s] Unsupported session backend: %q", op, config.Session.Backend)
	}

	// 初始化拍賣異動通知
	var events redisAdapter.IProducer[AuctionEvent] = noopProducer{}
	if config.Events.Stream != "" {
		producerOpts := []redisAdapter.ProducerOption[AuctionEvent]{
			redisAdapter.WithProducerLogger[AuctionEvent](slog.Default()),
			redisAdapter.WithProducerMaxLen[AuctionEvent](config.Events.MaxLen),
		}
		if config.Events.BufferSize > 0 {
			producerOpts = append(producerOpts, redisAdapter.WithProducerBufferSize[AuctionEvent](config.Events.BufferSize))
		}
		producer, err := redisAdapter.NewProducer[AuctionEvent](redisClient, config.Redis.KeyPrefix+config.Events.Stream, producerOpts...)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to create event producer, err=%w", op, err)
		}
		events = producer
	}

	var identityOpts []stores.IdentityStoreOption
	if config.Auth.BcryptCost > 0 {
		identityOpts = append(identityOpts, stores.WithBcryptCost(config.Auth.BcryptCost))
	}

	return &ServerImpl{
		db:           db,
		redisClient:  redisClient,
		identities:   stores.NewIdentityStore(db, identityOpts...),
		auctions:     stores.NewAuctionStore(db),
		sessionStore: sessionStore,
		events:       events,
		logger:       slog.Default().With(slog.String("caller", "ServerImpl")),
		config:       config,
	}, nil
}

func (impl *ServerImpl) Start() {
	impl.events.Start()
}

func (impl *ServerImpl) Close() {
	// 關閉異動通知，未送出的訊息會被丟棄
	impl.events.Close()
	if impl.redisClient != nil {
		if err := impl.redisClient.Close(); err != nil {
			impl.logger.Warn("Fail to close redis client", slog.Any("error", err))
		}
	}
	if sqlDB, err := impl.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			impl.logger.Warn("Fail to close database", slog.Any("error", err))
		}
	}
}

// Router 建立包含所有路由的 gin engine
func (impl *ServerImpl) Router() (*gin.Engine, error) {
	const op = "Router"
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", op, err)
	}

	router := gin.New()
	router.Use(RequestLogger(impl.logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", impl.GetHealthz)

	webMiddlewares := []gin.HandlerFunc{impl.SessionMiddleware()}
	if impl.config.HTTP.MaxFormBytes > 0 {
		webMiddlewares = append(webMiddlewares, limit.GinFormLimit(impl.config.HTTP.MaxFormBytes))
	}
	web := router.Group("/", webMiddlewares...)
	web.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/auctions") })
	web.GET("/register", impl.GetRegister)
	web.POST("/register", impl.PostRegister)
	web.GET("/login", impl.GetLogin)
	web.POST("/login", impl.PostLogin)
	web.POST("/logout", impl.PostLogout)

	auctions := web.Group("/auctions", impl.RequireLogin())
	auctions.GET("", impl.GetAuctions)
	auctions.GET("/create", impl.GetCreateAuction)
	auctions.POST("/create", impl.PostCreateAuction)
	auctions.GET("/:auctionID/update", impl.GetUpdateAuction)
	auctions.POST("/:auctionID/update", impl.PostUpdateAuction)
	auctions.POST("/:auctionID/delete", impl.PostDeleteAuction)

	return router, nil
}

// GetHealthz 檢查資料庫與 Redis 是否可用
// (GET /healthz)
func (impl *ServerImpl) GetHealthz(c *gin.Context) {
	ctx := c.Request.Context()
	if err := impl.ping(ctx); err != nil {
		impl.logger.Error("Health check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (impl *ServerImpl) ping(ctx context.Context) error {
	sqlDB, err := impl.db.DB()
	if err != nil {
		return fmt.Errorf("fail to get sql.DB, err=%w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("fail to ping database, err=%w", err)
	}
	if impl.redisClient != nil {
		if err := impl.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("fail to ping redis, err=%w", err)
		}
	}
	return nil
}

// fail 記錄非預期的錯誤並回傳 500
func (impl *ServerImpl) fail(c *gin.Context, op string, err error) {
	impl.logger.Error("Unexpected error",
		slog.String("op", op),
		slog.String("requestID", RequestIDFromContext(c)),
		slog.Any("error", err),
	)
	c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
		"Title": "Server error",
	})
	c.Abort()
}
