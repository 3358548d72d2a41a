package provider

import (
	"github.com/jishi-next/internal/authz"
	"github.com/jishi-next/internal/cache"
	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/queue"
	"github.com/jishi-next/internal/repository"
	"github.com/jishi-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	SellerRepo    repository.SellerRepository
	AffiliateRepo repository.AffiliateRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	FlaggedRepo   repository.FlaggedRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserService      *service.UserService
	SellerService    *service.SellerService
	AffiliateService *service.AffiliateService
	CategoryService  *service.CategoryService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	AdminService     *service.AdminService
	CaptchaService   *service.CaptchaService
	UploadService    *service.UploadService
	EmailService     *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SellerRepo = repository.NewSellerRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.FlaggedRepo = repository.NewFlaggedRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(c.Config)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UploadService = service.NewUploadService(c.Config)

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.SellerRepo, c.AffiliateRepo, c.QueueClient)
	c.UserService = service.NewUserService(c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.SellerRepo, c.UploadService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.AffiliateService = service.NewAffiliateService(c.Config, c.AffiliateRepo, c.ProductRepo, c.SellerRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.CartRepo, c.ProductRepo, c.UserRepo, c.AffiliateService, c.QueueClient)
	c.SellerService = service.NewSellerService(c.SellerRepo, c.ProductRepo, c.OrderRepo)
	c.AdminService = service.NewAdminService(c.UserRepo, c.ProductRepo, c.OrderRepo, c.FlaggedRepo)
}
