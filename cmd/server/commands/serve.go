package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

var skipScheduler bool

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipScheduler, "no-scheduler", false, "Do not run the table status job in this process")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := bootstrap()

	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		p := service.NewAMQPPublisher(cfg.RabbitURL)
		defer p.Close()
		publisher = p
	} else {
		log.Info("RABBITMQ_URL not set: reservation events are not published")
	}
	email, _ := notify.New(cfg.Notify, log)

	users := repository.NewUserRepo(db)
	resets := repository.NewResetTokenRepo(db)
	tables := repository.NewTableRepo(db)
	slots := repository.NewTimeSlotRepo(db)
	reservations := repository.NewReservationRepo(db)
	restaurant := repository.NewConfigRepo(db)
	stats := repository.NewStatsRepo(db)

	booking := service.NewBookingService(reservations, users, tables, slots, cfg.Location(), log,
		service.WithPublisher(publisher))

	if !skipScheduler {
		job := &service.TableStatusJob{Tables: tables, Log: log, Loc: cfg.Location()}
		if rdb != nil && cacheCfg.Enabled {
			job.OnChange = func(ctx context.Context) error {
				_, err := middleware.FlushCache(ctx, rdb, cacheCfg.Prefix)
				return err
			}
		}
		sched, err := service.StartScheduler(ctx, cfg.TableSyncCron, job)
		if err != nil {
			return err
		}
		defer func() { <-sched.Stop().Done() }()
	}

	e := router.New(router.Deps{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Auth:         handler.NewAuthHandler(cfg, users, resets, email, log),
		Tables:       handler.NewTableHandler(tables, log),
		Availability: handler.NewAvailabilityHandler(tables, slots, log),
		Reservations: handler.NewReservationHandler(booking, log),
		Config:       handler.NewConfigHandler(restaurant, log),
		Stats:        handler.NewStatsHandler(stats, booking.Today, log),
		Health:       handler.Health(db),
		Cache:        middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate:   middleware.NewCacheInvalidator(cacheCfg, rdb, log),
		RateLimit:    middleware.NewTokenBucket(rlCfg, rdb, log),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithField("env", cfg.Env).Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
