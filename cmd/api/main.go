package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/partner-commissions/internal/infrastructure/pdf"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/partner-commissions/internal/interfaces/http"
	"github.com/jhoicas/partner-commissions/pkg/config"
	"github.com/jhoicas/partner-commissions/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	customerRepo := postgres.NewCustomerRepository(pool)
	commissionRepo := postgres.NewCommissionRepository(pool)
	ruleRepo := postgres.NewAutoApprovalRuleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificaciones: Kafka si hay brokers; si no, solo log.
	var notifier ports.NotificationDeliverer
	if cfg.Kafka.Enabled() {
		kafkaNotifier, err := events.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka notifier")
		}
		defer func() { _ = kafkaNotifier.Close() }()
		notifier = kafkaNotifier
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("notificaciones vía Kafka")
	} else {
		notifier = events.NewLogNotifier(log.Component("notifications"))
		log.Warn().Msg("KAFKA_BROKERS vacío: las notificaciones solo se registran en el log")
	}
	emitter := ports.NewEmitter(auditRepo, notifier, log.Component("emitter"))

	dealUC := commission.NewDealClosureUseCase(txRunner, emitter, log.Component("deal_closure"))
	transitionUC := commission.NewTransitionUseCase(txRunner, emitter, log.Component("transitions"))
	queryUC := commission.NewQueryUseCase(commissionRepo, customerRepo, userRepo, infrapdf.NewStatementGenerator())
	ruleUC := commission.NewRuleUseCase(ruleRepo, emitter)
	customerUC := usecase.NewCustomerUseCase(customerRepo, userRepo, emitter)
	resellerUC := usecase.NewResellerUseCase(userRepo, emitter)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Partner Commissions API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DealUC:       dealUC,
		TransitionUC: transitionUC,
		QueryUC:      queryUC,
		RuleUC:       ruleUC,
		CustomerUC:   customerUC,
		ResellerUC:   resellerUC,
		AuditUC:      auditUC,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
