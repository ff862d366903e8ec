// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fpinheiro921/specforge/pkg/extensions"
	"github.com/fpinheiro921/specforge/pkg/logging"
	"github.com/fpinheiro921/specforge/services/llm"
	"github.com/fpinheiro921/specforge/services/specforge/generator"
	"github.com/fpinheiro921/specforge/services/specforge/handlers"
	"github.com/fpinheiro921/specforge/services/specforge/observability"
	"github.com/fpinheiro921/specforge/services/specforge/quota"
	"github.com/fpinheiro921/specforge/services/specforge/routes"
	"github.com/fpinheiro921/specforge/services/specforge/store"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "specforge-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("specforge-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	// Local development reads configuration from a .env file; absence is
	// normal in containerized deployments.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env file")
	}

	port := os.Getenv("SPECFORGE_PORT")
	if port == "" {
		port = "12400"
	}

	appLogger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		LogDir:  os.Getenv("SPECFORGE_LOG_DIR"),
		Service: "specforge",
		JSON:    true,
	})
	defer appLogger.Close()
	slog.SetDefault(appLogger.Slog())

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	dataDir := os.Getenv("SPECFORGE_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/specforge"
	}
	storeConfig := store.DefaultConfig()
	storeConfig.Path = dataDir
	storeConfig.Logger = appLogger.Slog()
	db, err := store.Open(storeConfig)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer db.Close()

	profiles := store.NewProfileStore(db)
	specs := store.NewSpecStore(db)
	ledger := quota.NewLedger(profiles, appLogger.Slog())

	// The AI backend is optional: without an API key the service still
	// serves saved specs, parsing, profile, and the module catalog.
	var gen *generator.Generator
	llmClient, err := llm.NewOpenAIClient()
	if err != nil {
		slog.Warn("AI backend not configured; generation endpoints disabled", "error", err)
	} else {
		gen = generator.New(llmClient, appLogger.Slog())
	}

	var authProvider extensions.AuthProvider = &extensions.NopAuthProvider{}
	if secret := os.Getenv("SPECFORGE_JWT_SECRET"); secret != "" {
		jwtProvider, err := extensions.NewJWTAuthProvider(secret)
		if err != nil {
			log.Fatalf("Failed to initialize JWT auth provider: %v", err)
		}
		authProvider = jwtProvider
		slog.Info("Using JWT bearer authentication")
	} else {
		slog.Warn("SPECFORGE_JWT_SECRET not set; running in single-user mode")
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("specforge-service"))

	h := handlers.New(gen, ledger, specs, appLogger.Slog())
	routes.SetupRoutes(router, h, authProvider)

	slog.Info("Starting the specforge server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
