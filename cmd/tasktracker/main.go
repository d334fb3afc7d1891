package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/bot"
	"task-tracker/internal/config"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
	"task-tracker/internal/session"
	"task-tracker/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(db)
	authSvc := service.NewAuthService(store.Users)
	digestSvc := service.NewDigestService(store.Tasks, store.Users)

	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := authSvc.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cancel()
		log.Fatalf("bootstrap admin: %v", err)
	}
	cancel()

	var notifier service.Notifier
	scheduler := service.NewSchedulerService(time.Local, 30*time.Second)
	if cfg.NotificationsEnabled() {
		tg, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID, digestSvc)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}
		notifier = tg

		if _, err := scheduler.ScheduleDaily("overdue digest", cfg.DigestTime, tg.SendOverdueDigest); err != nil {
			log.Fatalf("schedule digest: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("[info] overdue digest scheduled daily at %s", cfg.DigestTime)
	}

	taskSvc := service.NewTaskService(store, notifier)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewServer(authSvc, taskSvc, sessions).WithSecureCookie(cfg.SessionSecureCookie).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Task tracker listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
