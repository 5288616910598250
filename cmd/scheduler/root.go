package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kushalkp88/whatsapp-scheduler/internal/agent"
	"github.com/kushalkp88/whatsapp-scheduler/internal/api"
	"github.com/kushalkp88/whatsapp-scheduler/internal/batch"
	"github.com/kushalkp88/whatsapp-scheduler/internal/config"
	"github.com/kushalkp88/whatsapp-scheduler/internal/delay"
	"github.com/kushalkp88/whatsapp-scheduler/internal/engine"
	"github.com/kushalkp88/whatsapp-scheduler/internal/repo"
	"github.com/kushalkp88/whatsapp-scheduler/internal/report"
)

var sendNow bool

var rootCmd = &cobra.Command{
	Use:          "scheduler <schedule.csv>",
	Short:        "Schedules batched WhatsApp messages with human-like send jitter",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSchedule,
}

func init() {
	rootCmd.Flags().BoolVar(&sendNow, "now", false, "send all messages immediately (for testing)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("schedule file not found: %s", path)
	}

	cfg, err := config.LoadAll()
	if err != nil {
		return err
	}

	res, err := batch.Load(path)
	if err != nil {
		return err
	}
	slog.Info("batch loaded", "jobs", len(res.Jobs), "malformed", len(res.Malformed))

	attemptRepo, err := repo.NewSQLiteAttemptRepo(cfg.Report.SQLitePath)
	if err != nil {
		return err
	}
	defer attemptRepo.Close()

	reporter, err := buildReporter(cfg, attemptRepo)
	if err != nil {
		return err
	}

	pol := delay.NewPolicy(rand.NewSource(time.Now().UnixNano()))

	eng, err := engine.New(buildAgent(cfg), reporter, pol, cfg.Delay)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sendNow {
		slog.Info("immediate mode: sending all messages now", "delay_min", cfg.Delay.Min, "delay_max", cfg.Delay.Max)
		sent, failed := eng.RunImmediate(ctx, res.Jobs)
		slog.Info("all messages processed", "sent", sent, "failed", failed)
		return nil
	}

	admitted, skipped, err := eng.Schedule(res.Jobs)
	if err != nil {
		return err
	}
	slog.Info("batch scheduled", "admitted", admitted, "skipped", skipped)

	if admitted == 0 {
		slog.Info("no future messages to schedule")
		return nil
	}

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.Router(api.NewHandler(eng, attemptRepo)),
	}
	go func() {
		slog.Info("ops api listening", "addr", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops api failed", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("stop requested")
		eng.Stop()
	case <-eng.Done():
		slog.Info("all scheduled messages processed")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)

	return nil
}

func buildAgent(cfg *config.Config) agent.DeliveryAgent {
	if cfg.Delivery.WebhookURL != "" {
		return agent.NewWebhookAgent(cfg.Delivery.WebhookURL)
	}

	argv := strings.Fields(cfg.Delivery.SendCommand)
	return agent.NewExecAgent(argv[0], argv[1:]...)
}

func buildReporter(cfg *config.Config, attemptRepo repo.AttemptRepository) (report.Reporter, error) {
	fileRep, err := report.NewFileReporter(cfg.Report.LogDir)
	if err != nil {
		return nil, err
	}

	sinks := report.Multi{fileRep, report.NewStoreReporter(attemptRepo)}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sinks = append(sinks, report.NewRedisReporter(rdb, cfg.Redis.TTL))
	}

	return sinks, nil
}
