package main // Entry point package

import (
    "context" // context for the migration call
    "log"     // Logging library
    "time"    // migration timeout

    "github.com/joho/godotenv"    // loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-day-signup/internal/config"     // Internal config loader
    "github.com/iliyamo/event-day-signup/internal/database"   // DB open + schema migration
    "github.com/iliyamo/event-day-signup/internal/handler"    // HTTP handlers
    "github.com/iliyamo/event-day-signup/internal/middleware" // rate limit + cache middleware
    "github.com/iliyamo/event-day-signup/internal/passphrase" // passphrase generator
    "github.com/iliyamo/event-day-signup/internal/queue"      // background event consumer
    "github.com/iliyamo/event-day-signup/internal/repository" // DB repositories
    "github.com/iliyamo/event-day-signup/internal/router"     // Internal router setup
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the environment directly

    cfg := config.Load()          // Load environment config
    catalog := config.LoadCatalog() // Activity catalog and event window

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database open failed: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.Migrate(ctx, db, database.DialectMySQL); err != nil {
        cancel()
        log.Fatalf("migration failed: %v", err)
    }
    cancel()

    // Repositories and the passphrase generator.
    participants := repository.NewParticipantRepo(db)
    gen := passphrase.NewGenerator(cfg.WordListFile)
    regs := repository.NewRegistrationRepo(db, participants, gen)
    sessions := repository.NewSessionRepo(db)
    board := repository.NewScoreboardRepo(db)

    // Redis is optional: without it the limiter and cache become no-ops.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }

    e := echo.New()
    e.HideBanner = true
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    // Handlers.
    catalogH := handler.NewCatalogHandler(catalog, regs)
    regH := handler.NewRegistrationHandler(catalog, regs, participants)
    authH := handler.NewAuthHandler(cfg, sessions)
    adminH := handler.NewAdminHandler(catalog, regs)
    boardH := handler.NewScoreboardHandler(board)

    router.RegisterRoutes(e) // health check
    router.RegisterPublic(e, catalogH, regH, boardH, cache)
    router.RegisterAuth(e, authH)
    router.RegisterAdmin(e, adminH, boardH, cfg.JWTSecret)

    // Background consumer appends registration events to logs/registrations.log.
    go func() {
        if err := queue.StartRegistrationConsumer(); err != nil {
            log.Printf("registration consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
