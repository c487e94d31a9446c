package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"tara/pkg/astro"
	"tara/pkg/chat"
	"tara/pkg/classify"
	"tara/pkg/inference"
	"tara/pkg/metrics"
	"tara/pkg/persona"
	"tara/pkg/segment"
	"tara/pkg/server"
)

// statusRefreshSchedule re-probes astrology credentials every 10 minutes.
const statusRefreshSchedule = "*/10 * * * *"

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	inf := buildInferencer()
	m := metrics.New("tara")
	inf.OnFailover = func(model string) {
		m.ModelFailovers.WithLabelValues(model).Inc()
	}

	registry := persona.NewRegistry()
	if path := os.Getenv("CHARACTERS_FILE"); path != "" {
		if err := registry.LoadFile(path); err != nil {
			log.Fatal("loading character file", "path", path, "error", err)
		}
		go func() {
			if err := registry.Watch(ctx, path); err != nil {
				log.Warn("character file watcher stopped", "error", err)
			}
		}()
	}

	// Credentials resolve once at startup: either a usable client or a
	// typed unconfigured state, never per-request null checks.
	astroClient, err := astro.NewClient(os.Getenv("ASTROLOGY_API_USER_ID"), os.Getenv("ASTROLOGY_API_KEY"), astroOptions()...)
	if err != nil {
		if !errors.Is(err, astro.ErrUnconfigured) {
			log.Fatal("astrology client setup failed", "error", err)
		}
		log.Warn("astrology api unconfigured, chart endpoints will report it")
	}
	status := astro.NewStatusCache(astroClient)
	if err := status.Start(ctx, statusRefreshSchedule); err != nil {
		log.Fatal("astrology status refresh setup failed", "error", err)
	}

	srv := server.NewServer(ctx, server.Config{
		Registry:   registry,
		Store:      chat.NewStore(),
		Inferencer: inf,
		Classifier: classify.New(inf),
		Segmenter:  segment.New(inf),
		Summarizer: server.NewSummarizer(inf),
		Astro:      astroClient,
		Status:     status,
		Metrics:    m,
	})
	srv.Echo.Logger.SetLevel(gommon.INFO)

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("shutdown error", "error", err)
		}
		close(finishedShutDown)
	}()

	log.Info("server listening", "addr", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
	}
	<-finishedShutDown
}

// buildInferencer assembles the model fallback chain in priority order:
// OpenAI models from OPENAI_MODELS, then Grok, then Gemini when their
// keys are present.
func buildInferencer() *inference.Fallback {
	var chain []inference.Inferencer

	apiKey := os.Getenv("OPENAI_API_KEY")
	models := strings.Split(os.Getenv("OPENAI_MODELS"), ",")
	if len(models) == 1 && models[0] == "" {
		models = []string{"gpt-4o", "gpt-4o-mini"}
	}
	for _, model := range models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		openAI := inference.NewOpenAIInferencer(apiKey, model)
		if apiKey == "" {
			// Local OpenAI-compatible server for development.
			openAI.ChangeBaseURL("http://localhost:1234/v1")
		}
		chain = append(chain, openAI)
	}

	if grokKey := os.Getenv("GROK_API_KEY"); grokKey != "" {
		chain = append(chain, inference.NewGrokInferencer(grokKey, os.Getenv("GROK_MODEL")))
	}

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		gemini, err := inference.NewGeminiInferencer(geminiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Warn("gemini setup failed, skipping", "error", err)
		} else {
			chain = append(chain, gemini)
		}
	}

	log.Info("model fallback chain ready", "models", len(chain))
	return inference.NewFallback(chain...)
}

func astroOptions() []astro.Option {
	if base := os.Getenv("ASTROLOGY_API_URL"); base != "" {
		return []astro.Option{astro.WithBaseURL(base)}
	}
	return nil
}
