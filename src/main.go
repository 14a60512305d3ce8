package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gogonoten/johotel/src/boot"
	"github.com/gogonoten/johotel/src/common"
	"github.com/gogonoten/johotel/src/config"
	"github.com/gogonoten/johotel/src/lib"
	"github.com/gogonoten/johotel/src/middlewares"
	"github.com/gogonoten/johotel/src/reservations"
	"go.uber.org/zap"
)

const (
	apiPrefix string = "/api/v1"
)

type server struct {
	svc      *reservations.Service
	notifier common.Notifier
	logger   *zap.Logger
	secret   []byte
}

// gttime requires a time.Time field to be strictly after the sibling named
// by the tag parameter.
var gttime validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() {
		return false
	}
	otherValue, ok := other.Interface().(time.Time)
	if !ok {
		return false
	}
	return value.After(otherValue)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("gttime", gttime)
	}
}

func setupRouter(s *server) *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.Use(corsMiddleware())
	router = maintenanceModeMiddleware(router)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "time": s.svc.Now().UTC()})
	})

	public := router.Group(apiPrefix)
	roomHandlers(public, s)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware(s.secret, s.logger))
	reservationHandlers(authorized, s)
	return router
}

func corsMiddleware() gin.HandlerFunc {
	if config.IsLocal() {
		return cors.Default()
	}
	appHost := os.Getenv("APP_HOST")
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		if appHost == "" {
			return false
		}
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	return cors.New(cc)
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if config.MaintenanceMode() {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is under maintenance"})
			return
		}
		ctx.Next()
	})
	return g
}

func initLogger() *zap.Logger {
	cwd, _ := os.Getwd()
	serverLogs := config.GetEnv("LOG_FILE", path.Join(cwd, "logs", "server.log"))
	apiLogs := path.Join(path.Dir(serverLogs), "api.log")

	gin.DefaultWriter = io.MultiWriter(lib.RotatingFile(apiLogs), os.Stdout)
	logger := lib.NewLogger(lib.LoggerConfig{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "johotel-api",
		File:    serverLogs,
	})
	zap.ReplaceGlobals(logger)
	return logger
}

func newService(logger *zap.Logger) *reservations.Service {
	store := reservations.NewGormStore(boot.InitDb(), logger)
	rates, err := config.Rates()
	if err != nil {
		logger.Fatal("error loading rate table", zap.Error(err))
	}
	cfg := reservations.Config{
		Rates:              rates,
		CancellationWindow: config.CancellationWindow(),
	}
	if rdb := lib.GetRedisClient(); rdb != nil {
		cfg.Rooms = reservations.NewCachedRooms(store, rdb, config.RoomCacheTTL(), logger)
	}
	return reservations.NewService(store, cfg, logger)
}

func main() {
	if err := config.LoadEnv(); err != nil {
		panic(err)
	}
	if !config.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := initLogger()
	defer logger.Sync()

	svc := newService(logger)
	queue := config.ReservationEventsQueue()
	notifier := common.Notifiers{
		common.NewEventPublisher(queue),
		common.NewConfirmationMailer(config.HotelName(), os.Getenv("SMTP_FROM"), nil),
	}
	if config.IsLocal() {
		go boot.InitBroker(queue)
	}
	boot.InitScheduler(common.NewReminderJob(svc, notifier, config.ReminderInterval(), logger))
	defer boot.StopScheduler()

	registerValidators()
	router := setupRouter(&server{
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		secret:   config.JWTSecret(),
	})

	srv := &http.Server{
		Addr:              ":" + config.GetEnv("PORT", "8080"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
