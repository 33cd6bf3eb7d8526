package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"skill_console/internal/access"
	"skill_console/internal/config"
	"skill_console/internal/controller"
	"skill_console/internal/repository"
	"skill_console/internal/service"
	"skill_console/internal/session"
	"skill_console/internal/util"
	"skill_console/pkg/configwatcher"
	"skill_console/pkg/database"
	"skill_console/pkg/logger"
	"skill_console/pkg/monitoring"
	"skill_console/pkg/security"
	"skill_console/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions session.Store
	Policy   *access.Policy

	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
	stopBackground  context.CancelFunc
}

type repositories struct {
	client   *repository.APIClient
	auth     *repository.AuthRepository
	matrix   *repository.SkillMatrixRepository
	report   *repository.ReportRepository
	calendar *repository.CalendarRepository
	export   *repository.ExportRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	matrix     *service.SkillMatrixService
	gap        *service.SkillGapService
	masterData *service.MasterDataService
	imports    *service.ImportService
	reports    *service.ReportService
}

type controllers struct {
	auth       *controller.AuthController
	access     *controller.AccessController
	matrix     *controller.SkillMatrixController
	gap        *controller.SkillGapController
	masterData *controller.MasterDataController
	imports    *controller.ImportController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件变更后依次通知各组件
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := make([]func(*config.Config), len(a.configCallbacks))
	copy(callbacks, a.configCallbacks)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(cfg *config.Config, db *gorm.DB) *repositories {
	client := repository.NewAPIClient(cfg.Backend)
	repos := &repositories{
		client:   client,
		auth:     repository.NewAuthRepository(client),
		matrix:   repository.NewSkillMatrixRepository(client),
		report:   repository.NewReportRepository(client),
		calendar: repository.NewCalendarRepository(client),
	}
	if db != nil {
		repos.export = repository.NewExportRepository(db)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.auth, a.Sessions)

	// 未启用数据库时保持接口为 nil，而不是包着 nil 指针
	var exports service.ExportRecorder
	if repos.export != nil {
		exports = repos.export
	}
	s.matrix = service.NewSkillMatrixService(repos.matrix, s.storage, exports, cfg.Matrix)

	s.masterData = service.NewMasterDataService(repos.client, service.DefaultResources())
	s.gap = service.NewSkillGapService(s.masterData.Repo("user-skill-levels"), s.matrix)
	s.imports = service.NewImportService(repos.calendar)
	s.reports = service.NewReportService(repos.report)

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, a.Policy, a.Config.Session),
		access:     controller.NewAccessController(a.Policy),
		matrix:     controller.NewSkillMatrixController(s.matrix),
		gap:        controller.NewSkillGapController(s.gap),
		masterData: controller.NewMasterDataController(s.masterData),
		imports:    controller.NewImportController(s.imports),
		dashboard:  controller.NewDashboardController(s.reports),
		health:     controller.NewHealthController(repos.client, a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) initSessionStore(cfg *config.Config) error {
	if cfg.Session.Store == util.SessionStoreRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return err
		}
		a.Redis = rdb
		a.Sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
		return nil
	}
	a.Sessions = session.NewMemoryStore(cfg.Session.TTL)
	return nil
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	// 内存会话需要定期清理过期条目，Redis 依赖 key 过期
	if mem, ok := a.Sessions.(*session.MemoryStore); ok {
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := mem.Sweep(); n > 0 {
						logger.Log.Debug("Expired sessions swept", zap.Int("count", n))
					}
				}
			}
		}()
	}
}

func (a *App) registerReloaders(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.Policy.Reload(cfg.Access)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.matrix.SetOptions(service.MatrixOptionsFromConfig(cfg.Matrix))
	})
}

// NewApp 按 仓库 → 服务 → 控制器 的顺序装配
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config: cfg,
		Policy: access.NewPolicy(cfg.Access, access.DefaultRoutes()),
	}

	if cfg.Database.Enabled {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, err
		}
		app.DB = db
	}

	if err := app.initSessionStore(cfg); err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	repos := app.initRepositories(cfg, app.DB)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, repos)
	app.registerReloaders(app.services)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	ctx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	app.startBackgroundTasks(ctx)

	return app, nil
}

// WatchConfig 监听配置文件，ctx 取消时退出
func (a *App) WatchConfig(ctx context.Context, configDir string) {
	file := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(file); err != nil {
		logger.Log.Info("Config file not found, hot reload disabled", zap.String("file", file))
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, file, a.ApplyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
