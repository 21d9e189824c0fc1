package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/lock"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
	"github.com/BruksfildServices01/barber-agenda/internal/payment"
	"github.com/BruksfildServices01/barber-agenda/internal/routes"
	"github.com/BruksfildServices01/barber-agenda/internal/storage"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barber-agenda/internal/usecase/catalog"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	loc := timezone.Location(cfg.Shop.Timezone)
	workday := domain.Workday{Start: cfg.Shop.WorkdayStart, End: cfg.Shop.WorkdayEnd}
	if _, _, err := workday.Bounds(time.Now().In(loc)); err != nil {
		log.Fatalf("invalid workday: %v", err)
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	rdb := connectRedis(cfg.Redis)

	var locker lock.Locker = lock.NewLocal()
	var counter middleware.Counter
	if rdb != nil {
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL)
		counter = middleware.NewRedisCounter(rdb)
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, 100)

	channels, closers := buildNotifiers(cfg.Notify)
	notifier := notify.NewMulti(channels...)
	notifyDispatcher := notify.NewDispatcher(notifier, cfg.Notify.QueueSize, 10*time.Second)

	var images storage.ImageStore
	if cfg.S3.Bucket != "" {
		images = storage.NewS3Store(cfg.S3)
	}

	var payments payment.Gateway
	if cfg.Payments.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPago(cfg.Payments.MercadoPagoToken, cfg.Payments.Currency, cfg.Payments.BackURL)
		if err != nil {
			log.Printf("payments disabled: %v", err)
		} else {
			payments = mp
		}
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	catalog := ucCatalog.New(
		infraRepo.NewServiceGormRepository(db),
		images,
		auditDispatcher,
	)

	engine := ucAppointment.NewEngine(ucAppointment.Options{
		Repo:           infraRepo.NewAppointmentGormRepository(db),
		Services:       catalog,
		Locker:         locker,
		Policy:         domain.Policy{CompletedBlocksSlot: cfg.Shop.CompletedBlocksSlot},
		Location:       loc,
		Workday:        workday,
		GranularityMin: cfg.Shop.SlotGranularityMin,
		MinAdvance:     time.Duration(cfg.Shop.MinAdvanceMinutes) * time.Minute,
		ShopName:       cfg.Shop.Name,
		Audit:          auditDispatcher,
		Notifier:       notifyDispatcher,
		Payments:       payments,
	})

	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		DB:              db,
		Config:          cfg,
		Engine:          engine,
		Catalog:         catalog,
		AuditLogger:     auditLogger,
		AuditDispatcher: auditDispatcher,
		Notifier:        notifier,
		RateCounter:     counter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	notifyDispatcher.Close()
	auditDispatcher.Close()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close: %v", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// connectRedis devolve nil quando REDIS_ADDR não está definido ou não responde.
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, using in-process locks: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}

func buildNotifiers(cfg config.NotifyConfig) ([]notify.Notifier, []func() error) {
	var (
		channels []notify.Notifier
		closers  []func() error
	)

	if cfg.RabbitURL != "" {
		n := notify.NewAMQPNotifier(cfg.RabbitURL, cfg.Queue, cfg.CountryCode)
		if err := n.Connect(); err != nil {
			log.Printf("rabbitmq not reachable yet: %v", err)
		}
		channels = append(channels, n)
		closers = append(closers, n.Close)
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("telegram disabled: %v", err)
		} else {
			channels = append(channels, tg)
		}
	}

	if len(channels) == 0 {
		channels = append(channels, notify.LogNotifier{})
	}
	return channels, closers
}
