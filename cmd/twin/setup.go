package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/internal/providers/calendar"
	"github.com/sandevgo/twinbot/internal/providers/llm"
	"github.com/sandevgo/twinbot/internal/providers/rag"
	"github.com/sandevgo/twinbot/internal/service/chat"
	"github.com/sandevgo/twinbot/internal/service/command"
	"github.com/sandevgo/twinbot/internal/service/corpus"
	"github.com/sandevgo/twinbot/internal/service/planner"
	"github.com/sandevgo/twinbot/internal/service/retrieval"
	"github.com/sandevgo/twinbot/internal/service/twin"
	"github.com/sandevgo/twinbot/internal/storage/facts"
	"github.com/sandevgo/twinbot/internal/storage/sqlite"
	"github.com/sandevgo/twinbot/internal/transport/http"
	"github.com/sandevgo/twinbot/internal/transport/telegram"
	"github.com/sandevgo/twinbot/pkg/log"
	"github.com/sandevgo/twinbot/pkg/srv"
)

// App is the wired object graph shared by every subcommand.
type App struct {
	cfg      *config.AppConfig
	db       *sql.DB
	messages core.MessagesRepository
	provider *llm.DynamicProvider
	corpus   *corpus.Store
	twin     *twin.Twin
	chat     *chat.Service
}

func (a *App) Close() error {
	return a.db.Close()
}

func NewApp(ctx context.Context) (*App, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("init env: %w", err)
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	embCfg := config.NewEmbeddingConfig(ctx)
	calCfg := config.NewCalendarConfig(ctx)

	loc, err := appCfg.Location()
	if err != nil {
		return nil, err
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	messages := sqlite.NewMessagesRepo(db)

	// 3. Providers
	provider, err := llm.NewDynamicProvider(ctx, llmCfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	generator := llm.NewGenerator(provider, core.ChatOptions{
		Temperature: llmCfg.GetTemperature(),
		MaxTokens:   llmCfg.GetMaxTokens(),
	})
	embedder := rag.NewEmbedder(embCfg)
	calendarProvider := initCalendar(ctx, calCfg, loc)

	// 4. Corpus and retrieval
	store := corpus.NewStore(
		facts.NewJSONSource(appCfg.GetFactsPath()),
		sqlite.NewEmbeddingRepo(db),
		calendarProvider,
		embedder,
		corpus.NewCache(nil),
		corpus.StoreConfig{CalendarMatch: calCfg.Match, Location: loc},
	)

	persona, err := twin.LoadPersona(ctx, appCfg.GetPersonaPath(), appCfg.SubjectName)
	if err != nil {
		db.Close()
		return nil, err
	}

	tw := twin.New(
		embedder,
		retrieval.New(store),
		planner.New(loc, nil),
		generator,
		rag.NewTokenizer(),
		persona,
	)

	// 5. Chat sessions with slash commands
	router := command.New(command.NewCommands(llmCfg.GetProvider(), provider, store, messages))

	logger.Debug().
		Str("subject", appCfg.SubjectName).
		Str("timezone", loc.String()).
		Bool("calendar", calCfg.Configured()).
		Msg("twin initialized")

	return &App{
		cfg:      appCfg,
		db:       db,
		messages: messages,
		provider: provider,
		corpus:   store,
		twin:     tw,
		chat:     chat.New(tw, messages, router),
	}, nil
}

func initCalendar(ctx context.Context, cfg *config.CalendarConfig, loc *time.Location) core.CalendarProvider {
	logger := log.FromCtx(ctx)
	if !cfg.Configured() {
		logger.Info().Msg("no calendar credentials configured, answering from static facts only")
		return calendar.Noop{}
	}

	g, err := calendar.NewGoogle(ctx, cfg, loc)
	if err != nil {
		logger.Warn().Err(err).Msg("google calendar unavailable, answering from static facts only")
		return calendar.Noop{}
	}
	return g
}

// NewServices builds the long-running transports for `twin start`.
func NewServices(ctx context.Context, app *App) ([]srv.Service, error) {
	services := []srv.Service{srv.NewCleanup(app.Close)}

	if app.cfg.EnableHTTP {
		services = append(services, http.New(ctx, config.NewHTTPConfig(ctx), app.twin, app.corpus))
	}

	if app.cfg.EnableTelegram {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), app.chat)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if len(services) == 1 {
		return nil, fmt.Errorf("no transports enabled, set TWIN_ENABLE_HTTP or TWIN_ENABLE_TELEGRAM")
	}
	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
