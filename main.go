package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/crowdconnect-backend/api"
	"github.com/rpupo63/crowdconnect-backend/config"
	"github.com/rpupo63/crowdconnect-backend/database"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rpupo63/crowdconnect-backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	c := config.New()

	ssmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	loaded, err := config.LoadSSM(ssmCtx, c)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("loading SSM parameters")
	}
	if loaded > 0 {
		log.Info().Int("parameters", loaded).Msg("loaded configuration from SSM")
	}

	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		log.Warn().Err(err).Msg("invalid LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	opts, err := database.OptionsFromConfig(c)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	log.Info().Str("dbType", opts.Type).Bool("replica", opts.ReplicaDSN != "").Msg("connecting to database")

	db, err := database.Open(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	storeTimeout := config.GetSeconds(c, "STORE_TIMEOUT_SECONDS", services.DefaultStoreTimeout)

	pingCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	err = currentDB.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if mismatches := models.GenerateColumnMismatchReport(db); mismatches > 0 {
			os.Exit(1)
		}
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", true) {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := currentDB.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("migrating schema")
		}
	}

	ledger := services.NewLedger(currentDB, services.WithStoreTimeout(storeTimeout))
	leaderboard := services.NewLeaderboard(currentDB, storeTimeout)

	if interval := config.GetInt(c, "RECONCILE_INTERVAL_MINUTES", 15); interval > 0 {
		sched, err := services.NewReconciler(currentDB, storeTimeout).Start(time.Duration(interval) * time.Minute)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduling reconciler")
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error().Err(err).Msg("stopping reconciler")
			}
		}()
	}

	errChannel := make(chan error)

	server, err := api.NewServer(c, ledger, leaderboard)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
