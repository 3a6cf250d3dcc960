package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"game-night-bot/chat"
	"game-night-bot/handlers"
	"game-night-bot/models"
	"game-night-bot/services"
	"game-night-bot/utils"
	"game-night-bot/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := loadConfig()

	species, err := utils.LoadSpecies(cfg.SpeciesFile)
	if err != nil {
		log.Fatal("failed to load species table: ", err)
	}
	log.Printf("✅ Species table loaded (%d entries)", len(species))

	// Boundary client. A real platform adapter replaces this; the engines
	// only ever see the chat.Client interface.
	client := chat.NewLogClient()

	clock := clockwork.NewRealClock()
	sched, err := services.NewScheduler(clock)
	if err != nil {
		log.Fatal("failed to create scheduler: ", err)
	}

	registry := services.NewSessionRegistry()
	quizService := services.NewQuizService(registry, client, species, cfg.GuildID, clock)
	oracle := services.NewHistoryOracle(client, cfg.PaymentLogChannelID, cfg.PayeeAlias, cfg.CurrencyUnit)
	pokerService := services.NewPokerService(registry, client, oracle, sched, clock,
		cfg.GuildID, cfg.PokerFee, cfg.CurrencyUnit, cfg.PayeeAlias, cfg.VerifyDelay)
	leaseService := services.NewLeaseService(client, clock, cfg.GuildID, cfg.VCAdminIDs)
	purgeWorker := workers.NewPurgeWorker(client, clock)

	if err := leaseService.StartSweep(sched); err != nil {
		log.Fatal("failed to schedule lease sweep: ", err)
	}
	sched.Start()

	dispatcher := handlers.NewDispatcher(client, quizService, pokerService, leaseService, purgeWorker)

	// The bindings are handed to the platform adapter on every start so
	// buttons and commands from before a restart stay routable.
	for _, b := range dispatcher.ComponentBindings() {
		log.Printf("🔘 Component binding registered: %s", b.ComponentID)
	}
	for _, b := range dispatcher.CommandBindings() {
		log.Printf("⌨️  Command binding registered: /%s — %s", b.Name, b.Description)
	}

	app := fiber.New()
	handlers.SetupHealthRoutes(app, cfg.AdminToken, registry, leaseService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Keep-alive shim running on http://localhost:%s", cfg.Port)
	log.Println("✅ Lease sweep running (every 1m)")

	<-ctx.Done()
	log.Println("Shutting down…")
	sched.Shutdown()
}

func loadConfig() models.Config {
	cfg := models.Config{
		GuildID:             mustEnv("GUILD_ID"),
		PaymentLogChannelID: mustEnv("PAYMENT_LOG_CHANNEL_ID"),
		PayeeAlias:          mustEnv("PAYEE_ALIAS"),
		AdminToken:          mustEnv("ADMIN_STATUS_TOKEN"),
		CurrencyUnit:        envOr("CURRENCY_UNIT", "ポイント"),
		SpeciesFile:         envOr("SPECIES_FILE", "pokedex.json"),
		Port:                envOr("PORT", "8080"),
		VerifyDelay:         3 * time.Minute,
	}

	feeStr := envOr("POKER_ENTRY_FEE", "500")
	fee, err := strconv.Atoi(feeStr)
	if err != nil || fee <= 0 {
		log.Fatal("POKER_ENTRY_FEE must be a positive integer, got ", feeStr)
	}
	cfg.PokerFee = fee

	if ids := os.Getenv("VC_ADMIN_IDS"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			cfg.VCAdminIDs = append(cfg.VCAdminIDs, strings.TrimSpace(id))
		}
	}
	return cfg
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s environment variable not set", key)
	}
	return value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
