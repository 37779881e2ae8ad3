package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"hybrid-rag/internal/classifier"
	"hybrid-rag/internal/config"
	"hybrid-rag/internal/db"
	"hybrid-rag/internal/embedding"
	"hybrid-rag/internal/helper"
	"hybrid-rag/internal/llmservice"
	"hybrid-rag/internal/rag"
	"hybrid-rag/internal/server"
	"hybrid-rag/internal/vectorstore"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file")
	question := flag.String("question", "", "Question to be answered")
	serve := flag.Bool("serve", false, "Run the HTTP server")
	addr := flag.String("addr", "", "Listen address, overrides the configured one")
	seed := flag.Bool("seed", false, "Initialize and seed the dataset")
	status := flag.Bool("status", false, "Probe the model server and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()

	if *status {
		reportStatus(ctx, cfg)
		return
	}

	if *seed {
		seedDataset(ctx, cfg)
		return
	}

	if *serve {
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		runServer(cfg)
		return
	}

	if *question == "" {
		log.Fatal().Msg("Please provide a question using the -question flag, optionally with a document via -file")
	}

	if *filePath != "" {
		answerDocument(ctx, cfg, *filePath, *question)
		return
	}
	answerDataset(ctx, cfg, *question)
}

func reportStatus(ctx context.Context, cfg *config.Config) {
	gateway := llmservice.NewClient(&cfg.GenLLM)
	installed, err := gateway.InstalledModels(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Model server probe failed")
	}
	helper.PrettyPrint(map[string]interface{}{"status": "ok", "models": installed})
}

func seedDataset(ctx context.Context, cfg *config.Config) {
	bunDB := connectDataset(cfg)
	defer bunDB.Close()

	if err := db.ResetDB(ctx, bunDB); err != nil {
		log.Fatal().Err(err).Msg("Error resetting database")
	}
	if err := db.InitDB(ctx, bunDB); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	if err := db.Seed(ctx, bunDB); err != nil {
		log.Fatal().Err(err).Msg("Error seeding database")
	}
	log.Info().Msg("Dataset seeded")
}

func answerDocument(ctx context.Context, cfg *config.Config, filePath, question string) {
	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	gateway := llmservice.NewClient(&cfg.GenLLM)

	core := rag.NewRAG(vectorstore.New(), embedder, gateway, nil, nil, cfg)
	response, err := core.AnswerFile(ctx, filePath, question)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering from document")
	}
	printResponse(response.Query, response.Source, response.Content)
}

func answerDataset(ctx context.Context, cfg *config.Config, question string) {
	bunDB := connectDataset(cfg)
	defer bunDB.Close()

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	gateway := llmservice.NewClient(&cfg.GenLLM)
	fetcher := db.NewStore(bunDB)
	refiner := classifier.NewRefiner(gateway, fetcher)

	core := rag.NewRAG(vectorstore.New(), embedder, gateway, fetcher, refiner, cfg)
	response, err := core.AnswerDataset(ctx, question)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering from dataset")
	}
	printResponse(response.Query, response.Source, response.Content)
}

func runServer(cfg *config.Config) {
	bunDB := connectDataset(cfg)
	defer bunDB.Close()

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	gateway := llmservice.NewClient(&cfg.GenLLM)
	fetcher := db.NewStore(bunDB)
	refiner := classifier.NewRefiner(gateway, fetcher)

	core := rag.NewRAG(vectorstore.New(), embedder, gateway, fetcher, refiner, cfg)
	srv := server.New(core, gateway)

	log.Info().Str("addr", cfg.Server.Addr).Msg("Listening")
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func connectDataset(cfg *config.Config) *bun.DB {
	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	return db.NewDB(sqldb, cfg.Database.Debug)
}

func printResponse(query, source, content string) {
	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", content)
}
