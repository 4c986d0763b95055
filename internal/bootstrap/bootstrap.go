package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	authz "github.com/yigit/unimanage/internal/app/auth"
	appControllers "github.com/yigit/unimanage/internal/app/controllers"
	appMigrations "github.com/yigit/unimanage/internal/app/migrations"
	appRepos "github.com/yigit/unimanage/internal/app/repositories"
	appRoutes "github.com/yigit/unimanage/internal/app/routes"
	appServices "github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/config"
	"github.com/yigit/unimanage/internal/db"
	appMiddleware "github.com/yigit/unimanage/internal/middleware"
	pkgAuth "github.com/yigit/unimanage/internal/pkg/auth"
	"github.com/yigit/unimanage/internal/pkg/helpers"
	"github.com/yigit/unimanage/internal/pkg/logger"
	"github.com/yigit/unimanage/internal/pkg/metrics"
	"github.com/yigit/unimanage/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is unset
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	Abilities      *authz.AbilityFactory
	AuthzService   *authz.AuthorizationService
	Metrics        *metrics.Metrics
	Seeder         *seed.Seeder
	AuthMiddleware *appMiddleware.AuthMiddleware
	PolicyGuard    *appMiddleware.PolicyGuard
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// ConfigPath returns the config file location, honouring CONFIG_PATH
func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return DefaultConfigPath
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// RunMigrations applies pending goose migrations over a short-lived lib/pq connection.
func RunMigrations(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) error {
	migrator, err := appMigrations.Open(ctx, cfg.GetPostgresConnectionString(), lgr)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		return err
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	lgr.Info().Int64("version", version).Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		if err := RunMigrations(ctx, cfg, lgr); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
	}

	return database.Pool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewMetrics(metrics.NewDefaultRegistry())
		deps.Metrics.RegisterPoolStats(dbPool)
	}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 15*time.Minute),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.Abilities = authz.NewAbilityFactory()
	deps.AuthzService = authz.NewAuthorizationService(deps.Repos.StudentRepository, logger.WithComponent("authorization"))

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Abilities, deps.Metrics)

	deps.Seeder = seed.NewSeeder(dbPool, seed.Config{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		UserPassword:  cfg.Seed.UserPassword,
		RandomSeed:    cfg.Seed.RandomSeed,
	}, logger.WithComponent("seed"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Services.AuthService, logger.WithComponent("auth-middleware"))
	deps.PolicyGuard = appMiddleware.NewPolicyGuard(deps.Abilities, deps.Metrics, logger.WithComponent("policy-guard"))

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.AuthService, lgr),
		Profile:    appControllers.NewProfileController(deps.Services.ProfileService, deps.AuthzService),
		Student:    appControllers.NewStudentController(deps.Services.StudentService, deps.AuthzService),
		Lecturer:   appControllers.NewLecturerController(deps.Services.LecturerService),
		Course:     appControllers.NewCourseController(deps.Services.CourseService),
		Department: appControllers.NewDepartmentController(deps.Services.DepartmentService),
		Seed:       appControllers.NewSeedController(deps.Seeder),
	}

	return deps, nil
}

// SeedOnStartup repopulates the database when the seed section asks for it.
func SeedOnStartup(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.OnStartup {
		return
	}
	summary, err := deps.Seeder.Seed(ctx)
	if err != nil {
		// a failed seed leaves the previous data in place, the API can still serve it
		deps.Logger.Error().Err(err).Msg("Failed to seed database on startup, proceeding anyway...")
		return
	}
	deps.Logger.Info().Int64("adminID", summary.AdminID).Int("students", summary.Students).Msg("Database seeded on startup")
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register validation rules")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.WithComponent("http")))
	router.Use(appMiddleware.RequestMetrics(deps.Metrics))

	appRoutes.SetupSwagger(router)
	if deps.Metrics != nil {
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.PolicyGuard)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
