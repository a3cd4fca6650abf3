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

	"github.com/oleotech/frantoio-api/internal/application/export"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/infrastructure/postgres"
	infrasian "github.com/oleotech/frantoio-api/internal/infrastructure/sian"
	httpRouter "github.com/oleotech/frantoio-api/internal/interfaces/http"
	"github.com/oleotech/frantoio-api/pkg/config"
	"github.com/oleotech/frantoio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("caricamento configurazione: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:      cfg.App.Env,
		Level:    cfg.App.LogLevel,
		Servizio: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("avvio applicazione")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connessione a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	conferimentoUC := registro.NewConferimentoUseCase(txRunner, repos, cfg.SIAN.CodiceFiscale, log)
	molituraTerziUC := registro.NewMolituraTerziUseCase(txRunner, repos, log)
	molituraProprioUC := registro.NewMolituraProprioUseCase(txRunner, repos, log)
	consultazioneUC := registro.NewConsultazioneUseCase(repos)

	xmlBuilder := infrasian.NewXMLBuilder()
	fileStore := infrasian.NewFileStore(cfg.SIAN.DirEsporta)
	exportUC := export.NewUseCase(txRunner, repos, xmlBuilder, fileStore, export.Config{
		CodiceFiscale: cfg.SIAN.CodiceFiscale,
		Denominazione: cfg.SIAN.Denominazione,
		SoftwareID:    cfg.SIAN.SoftwareID,
		Versione:      cfg.SIAN.Versione,
		PrefissoFile:  cfg.SIAN.PrefissoFile,
		InferenzaData: cfg.SIAN.InferenzaData,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI in locale: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Frantoio Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Conferimento:  conferimentoUC,
		MolituraTerzi: molituraTerziUC,
		MolituraProp:  molituraProprioUC,
		Consultazione: consultazioneUC,
		Export:        exportUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("server HTTP terminato")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("segnale di arresto ricevuto, chiusura del server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arresto del server")
	}

	log.Info().Msg("applicazione fermata")
}
