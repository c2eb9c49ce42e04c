package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	infraCache "bookheaven-backend/internal/infrastructure/cache"
	"bookheaven-backend/internal/infrastructure/database"
	"bookheaven-backend/internal/infrastructure/queue"
	"bookheaven-backend/pkg/cache"
	"bookheaven-backend/pkg/jwt"

	authorHandler "bookheaven-backend/internal/domains/author/handler"
	authorRepo "bookheaven-backend/internal/domains/author/repository"
	authorService "bookheaven-backend/internal/domains/author/service"
	bookHandler "bookheaven-backend/internal/domains/book/handler"
	bookRepo "bookheaven-backend/internal/domains/book/repository"
	bookService "bookheaven-backend/internal/domains/book/service"
	likeHandler "bookheaven-backend/internal/domains/like/handler"
	likeRepo "bookheaven-backend/internal/domains/like/repository"
	likeService "bookheaven-backend/internal/domains/like/service"
	orderHandler "bookheaven-backend/internal/domains/order/handler"
	orderRepo "bookheaven-backend/internal/domains/order/repository"
	orderService "bookheaven-backend/internal/domains/order/service"
	ratingHandler "bookheaven-backend/internal/domains/rating/handler"
	ratingRepo "bookheaven-backend/internal/domains/rating/repository"
	ratingService "bookheaven-backend/internal/domains/rating/service"
	shelfHandler "bookheaven-backend/internal/domains/shelf/handler"
	shelfRepo "bookheaven-backend/internal/domains/shelf/repository"
	shelfService "bookheaven-backend/internal/domains/shelf/service"
	tagHandler "bookheaven-backend/internal/domains/tag/handler"
	tagRepo "bookheaven-backend/internal/domains/tag/repository"
	tagService "bookheaven-backend/internal/domains/tag/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application. Build order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BookRepo   bookRepo.RepositoryInterface
	AuthorRepo authorRepo.RepositoryInterface
	TagRepo    tagRepo.RepositoryInterface
	ShelfRepo  shelfRepo.ShelfRepository
	LikeRepo   likeRepo.LikeRepository
	RatingRepo ratingRepo.RatingRepository
	OrderRepo  orderRepo.OrderRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	BookService   bookService.ServiceInterface
	AuthorService authorService.ServiceInterface
	TagService    tagService.ServiceInterface
	ShelfService  shelfService.ServiceInterface
	LikeService   likeService.ServiceInterface
	RatingService ratingService.ServiceInterface
	OrderService  orderService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	BookHandler   *bookHandler.Handler
	AuthorHandler *authorHandler.AuthorHandler
	TagHandler    *tagHandler.TagHandler
	ShelfHandler  *shelfHandler.ShelfHandler
	LikeHandler   *likeHandler.LikeHandler
	RatingHandler *ratingHandler.RatingHandler
	OrderHandler  *orderHandler.OrderHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	// Redis is not critical: search falls back to a per-process cache
	c.Redis = infraCache.NewRedisClient(cfg.Redis)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-process search cache")
		c.Cache = cache.NewMemory()
	} else {
		c.Cache = c.Redis
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		jwt.WithIssuer(cfg.JWT.Issuer),
		jwt.WithLeeway(cfg.JWT.Leeway),
	)
	c.AsynqClient = queue.NewClient(cfg.Redis)

	// ========================================
	// STEP 4-6: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
	c.ShelfRepo = shelfRepo.NewPostgresShelfRepository(pool)
	c.LikeRepo = likeRepo.NewPostgresLikeRepository(pool)
	c.RatingRepo = ratingRepo.NewPostgresRatingRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
}

func (c *Container) initServices() {
	search := c.Config.Search

	c.BookService = bookService.NewBookService(c.BookRepo, c.Cache, search)
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.Cache, search)
	c.TagService = tagService.NewTagService(c.TagRepo, c.Cache, search)
	c.ShelfService = shelfService.NewShelfService(c.ShelfRepo)
	c.LikeService = likeService.NewLikeService(c.LikeRepo, c.Cache)
	c.RatingService = ratingService.NewRatingService(c.RatingRepo, search)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, search)
}

func (c *Container) initHandlers() {
	search := c.Config.Search

	c.BookHandler = bookHandler.NewHandler(c.BookService, search)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, search)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService, search)
	c.ShelfHandler = shelfHandler.NewShelfHandler(c.ShelfService)
	c.LikeHandler = likeHandler.NewLikeHandler(c.LikeService, c.AsynqClient)
	c.RatingHandler = ratingHandler.NewRatingHandler(c.RatingService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
}

// Cleanup releases connections on shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
