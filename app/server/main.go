package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/config"
	"github.com/hearthside/companion/internal/alerts"
	"github.com/hearthside/companion/internal/api/handlers"
	"github.com/hearthside/companion/internal/api/routes"
	"github.com/hearthside/companion/internal/cache"
	"github.com/hearthside/companion/internal/logger"
	"github.com/hearthside/companion/internal/providers/asr"
	"github.com/hearthside/companion/internal/providers/llm"
	"github.com/hearthside/companion/internal/providers/translate"
	"github.com/hearthside/companion/internal/providers/tts"
	mongorepo "github.com/hearthside/companion/internal/repositories/mongo"
	"github.com/hearthside/companion/internal/repositories/postgres"
	"github.com/hearthside/companion/internal/sentiment"
	"github.com/hearthside/companion/internal/services"
	"github.com/hearthside/companion/internal/session"
	"github.com/hearthside/companion/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()
	ctx := context.Background()

	db, err := config.InitPostgres()
	if err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}

	rdb, err := config.InitRedis(ctx)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, caching and alert pub/sub disabled")
		rdb = nil
	}

	mongoDB, err := config.InitMongo(ctx)
	if err != nil {
		log.WithError(err).Warn("mongo unavailable, session records disabled")
		mongoDB = nil
	}

	// Repositories.
	convRepo := postgres.NewConversationRepository(db)
	medRepo := postgres.NewMedicationRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	escRepo := postgres.NewEscalationRepository(db)

	var sessRepo mongorepo.SessionRepository
	if mongoDB != nil {
		sessRepo = mongorepo.NewSessionRepository(mongoDB)
	}

	// Providers.
	asrProvider := buildASR(ctx, log)
	llmProvider := buildLLM(ctx, log)
	ttsProvider := tts.NewMurf(os.Getenv("MURF_API_KEY"), os.Getenv("MURF_BASE_URL"))
	translator := translate.NewMurf(os.Getenv("MURF_API_KEY"), os.Getenv("MURF_BASE_URL"))

	var embedder llm.Embedder
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		embedder = llm.NewOpenAIEmbedder(key)
	}

	var archiver storage.Uploader
	if bucket := os.Getenv("AUDIO_ARCHIVE_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Warn("audio archive disabled")
		} else {
			archiver = up
		}
	}

	c := cache.Noop()
	if rdb != nil {
		c = cache.NewRedis(rdb)
	}

	// Services.
	convSvc := services.NewConversationService(convRepo, embedder, log)
	medSvc := services.NewMedicationService(medRepo)
	settingsSvc := services.NewSettingsService(settingsRepo, log)
	sessionSvc := services.NewSessionService(sessRepo, log)
	wordSvc := services.NewWordService(llmProvider, c, log)

	notifier := alerts.NewRedisNotifier(rdb, escRepo,
		os.Getenv("ESCALATION_CONTACT"), os.Getenv("ESCALATION_CHANNEL"), log)

	deps := session.Deps{
		ASR:           asrProvider,
		LLM:           llmProvider,
		TTS:           ttsProvider,
		Translator:    translator,
		Sentiment:     sentiment.NewAnalyzer(),
		Conversations: convSvc,
		Medications:   medSvc,
		Settings:      settingsSvc,
		Sessions:      sessionSvc,
		Escalator:     notifier,
		Archiver:      archiver,
		Logger:        log,
	}

	sessCfg := session.Config{
		DebounceWindow: envDuration("DEBOUNCE_WINDOW_MS", 800) * time.Millisecond,
		NudgeInterval:  envDuration("NUDGE_INTERVAL_S", 30) * time.Second,
	}

	registry := session.NewRegistry()

	h := routes.Handlers{
		Voice:         handlers.NewVoiceHandler(registry, deps, sessCfg, log),
		Conversations: handlers.NewConversationHandler(convSvc),
		Medications:   handlers.NewMedicationHandler(medSvc),
		Settings:      handlers.NewSettingsHandler(settingsSvc),
		Word:          handlers.NewWordHandler(wordSvc),
		Escalations:   handlers.NewEscalationHandler(escRepo),
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.Register(r, h, os.Getenv("COMPANION_JWT_SECRET"), log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("companion server listening")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func buildASR(ctx context.Context, log *logrus.Logger) asr.Provider {
	switch os.Getenv("ASR_PROVIDER") {
	case "google":
		p, err := asr.NewGoogleSpeech(ctx)
		if err != nil {
			log.WithError(err).Fatal("google speech init failed")
		}
		return p
	default:
		return asr.NewDeepgram(os.Getenv("DEEPGRAM_API_KEY"), os.Getenv("DEEPGRAM_MODEL"))
	}
}

func buildLLM(ctx context.Context, log *logrus.Logger) llm.Provider {
	switch os.Getenv("LLM_PROVIDER") {
	case "vertex":
		p, err := llm.NewVertexGemini(ctx,
			os.Getenv("GCP_PROJECT"), os.Getenv("GCP_LOCATION"), os.Getenv("VERTEX_MODEL"))
		if err != nil {
			log.WithError(err).Fatal("vertex init failed")
		}
		return p
	default:
		return llm.NewGroq(os.Getenv("GROQ_API_KEY"), os.Getenv("GROQ_MODEL"))
	}
}

func envDuration(key string, fallback int64) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
