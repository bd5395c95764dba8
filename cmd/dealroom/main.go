package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/harborpoint/dealroom/internal/ai"
	"github.com/harborpoint/dealroom/internal/config"
	"github.com/harborpoint/dealroom/internal/db"
	"github.com/harborpoint/dealroom/internal/handler"
	"github.com/harborpoint/dealroom/internal/job"
	"github.com/harborpoint/dealroom/internal/middleware"
	"github.com/harborpoint/dealroom/internal/repo"
	"github.com/harborpoint/dealroom/internal/schedule"
	"github.com/harborpoint/dealroom/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "dealroom",
		Short: "dealroom backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run dealroom server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Int("ai_providers", len(cfg.AI.Providers)),
	)

	investmentRepo := repo.NewInvestmentRepo(conn)
	documentRepo := repo.NewDealDocumentRepo(conn)
	conversationRepo := repo.NewConversationRepo(conn)

	entries := make([]ai.GeneratorEntry, 0, len(cfg.AI.Providers))
	for _, pc := range cfg.AI.Providers {
		provider, err := ai.NewProvider(pc.Provider, pc.Data)
		if err != nil {
			return fmt.Errorf("init ai provider %s: %w", pc.Provider, err)
		}
		entries = append(entries, ai.GeneratorEntry{
			Name:      pc.Provider + "/" + pc.Model,
			Generator: ai.NewGenerator(provider, pc.Model),
		})
	}
	manager := ai.NewManager(ai.NewGroupGenerator(entries), ai.ManagerConfig{
		Timeout:       cfg.AI.Timeout,
		MaxInputChars: cfg.AI.MaxQuestionChars,
	})

	investmentService := service.NewInvestmentService(investmentRepo)
	documentService := service.NewDocumentService(investmentRepo, documentRepo)
	assistantService := service.NewAssistantService(documentRepo, manager, conversationRepo, service.AssistantOptions{
		MaxContextChars:   cfg.Assistant.MaxContextChars,
		SystemInstruction: cfg.Assistant.SystemInstruction,
	})

	deps := handler.RouterDeps{
		Investments:   handler.NewInvestmentHandler(investmentService),
		Documents:     handler.NewDocumentHandler(documentService),
		Assistant:     handler.NewAssistantHandler(assistantService),
		ChatRateLimit: time.Duration(cfg.Assistant.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewConversationCleanupJob(conversationRepo, time.Duration(cfg.Assistant.ConversationKeepDays)*24*time.Hour)
	if err := scheduler.AddJob(cleanup, "0 3 * * *"); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
