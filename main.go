package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/glade/api"
	gameapi "github.com/beka-birhanu/glade/api/game"
	api_i "github.com/beka-birhanu/glade/api/i"
	"github.com/beka-birhanu/glade/api/identity"
	"github.com/beka-birhanu/glade/config"
	"github.com/beka-birhanu/glade/game"
	logger "github.com/beka-birhanu/glade/infrastruture/log"
	"github.com/beka-birhanu/glade/infrastruture/repo"
	"github.com/beka-birhanu/glade/infrastruture/sortedstorage"
	"github.com/beka-birhanu/glade/infrastruture/token"
	"github.com/beka-birhanu/glade/service"
	"github.com/beka-birhanu/glade/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient        *mongo.Client
	redisClient        *redis.Client
	userRepo           *repo.UserRepo
	runRepo            *repo.RunRepo
	leaderboard        i.Leaderboard
	presets            *game.Presets
	gameSessionManager i.GameSessionManager
	gameController     api_i.Controller
	jwtTokenizer       i.Tokenizer
	authService        i.Authenticator
	authController     api_i.Controller
	router             *api.Router
	appLogger          *logger.Logger
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRepos(ctx context.Context) {
	userRepo = repo.NewUserRepo(mongoClient, config.Envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating user indexes: %v", err))
		os.Exit(1)
	}

	runRepo = repo.NewRunRepo(mongoClient, config.Envs.DBName, "runs")
	if err := runRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating run indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Repositories initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	ttl := time.Duration(config.Envs.LeaderboardTTLHours) * time.Hour
	leaderboard = sortedstorage.NewRedisLeaderboard(redisClient, ttl)
	appLogger.Info("Connected to Redis leaderboard")
}

func initPresets() {
	var err error
	presets, err = game.LoadPresets(config.Envs.DifficultyFile)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading difficulty presets: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Difficulty presets loaded: %v", presets.Names()))
}

func initSessionManager() {
	var err error
	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Presets:      presets,
		Runs:         runRepo,
		Users:        userRepo,
		Leaderboard:  leaderboard,
		TickInterval: time.Duration(config.Envs.TickIntervalMs) * time.Millisecond,
		Timeout:      time.Duration(config.Envs.SessionTimeoutMin) * time.Minute,
		Logger:       newLogger("SESSION-MANAGER", config.ColorCyan),
		GameLogger:   newLogger("GAME", config.ColorPurple),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initGameController() {
	var err error
	gameController, err = gameapi.NewController(&gameapi.Config{
		Sessions:    gameSessionManager,
		Runs:        runRepo,
		Leaderboard: leaderboard,
		Logger:      newLogger("GAME-API", config.ColorBlue),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Game controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, gameController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRepos(ctx)

	initRedis(ctx)
	defer redisClient.Close()

	initPresets()
	initSessionManager()
	defer gameSessionManager.StopAll()

	initGameController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	server := &http.Server{
		Addr:              router.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()

	go func() {
		appLogger.Info(fmt.Sprintf("Listening on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			release()
		}
	}()

	<-stop.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Warning(fmt.Sprintf("Server shutdown: %v", err))
	}
}
