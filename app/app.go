package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/session"
)

// Shorthand aliases for handlers.
type Ctx = gin.Context
type H = gin.H

// App aggregates the shared dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config comes from environment variables, with local-dev defaults.
type Config struct {
	Port      string
	RedisAddr string
	RedisPwd  string
	WebOrigin string

	SessionTTL      time.Duration
	MagicLinkTTL    time.Duration
	MagicLinkSecret []byte
	BootstrapEmail  string

	AIEnabled     bool
	OllamaHost    string
	OllamaModel   string
	AIMaxTokens   int
	AITemperature float64
	AITimeout     time.Duration
	AIRateLimit   int
	AIRateWindow  time.Duration
	HorizonDays   int
	CatalogTTL    time.Duration

	BookingDailyLimit int
	BookingMaxDays    int

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	getInt := func(k string, def int) int {
		if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
			return n
		}
		return def
	}
	getDur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
			return d
		}
		return def
	}
	getFloat := func(k string, def float64) float64 {
		if f, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil && f >= 0 {
			return f
		}
		return def
	}

	secret := get("MAGIC_LINK_SECRET", "")
	if secret == "" {
		// Random per-process secret still works, links just die on restart.
		log.Println("MAGIC_LINK_SECRET not set, using ephemeral secret")
		secret = get("HOSTNAME", "rfbooking-dev") + strconv.FormatInt(time.Now().UnixNano(), 36)
	}

	return Config{
		Port:      get("PORT", "8080"),
		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),

		SessionTTL:      getDur("SESSION_TTL", 24*time.Hour),
		MagicLinkTTL:    getDur("MAGIC_LINK_TTL", 15*time.Minute),
		MagicLinkSecret: []byte(secret),
		BootstrapEmail:  os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),

		AIEnabled:     os.Getenv("AI_ENABLED") != "false",
		OllamaHost:    get("OLLAMA_HOST", "http://127.0.0.1:11434"),
		OllamaModel:   get("AI_MODEL", "llama3.1:8b"),
		AIMaxTokens:   getInt("AI_MAX_TOKENS", 1024),
		AITemperature: getFloat("AI_TEMPERATURE", 0.7),
		AITimeout:     getDur("AI_TIMEOUT", 60*time.Second),
		AIRateLimit:   getInt("AI_RATE_LIMIT", 10),
		AIRateWindow:  getDur("AI_RATE_WINDOW", 5*time.Minute),
		HorizonDays:   getInt("ALTERNATIVE_HORIZON_DAYS", 14),
		CatalogTTL:    getDur("CATALOG_CACHE_TTL", 10*time.Minute),

		BookingDailyLimit: getInt("BOOKING_DAILY_LIMIT", 20),
		BookingMaxDays:    getInt("BOOKING_MAX_DAYS", 30),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: get("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom: get("SMTP_FROM", "noreply@rfbooking.local"),
	}
}
