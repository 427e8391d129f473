package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/viralforge/forensics-engine/internal/app/bootstrap"
)

func main() {
	// .env is optional; container deployments set real env vars instead.
	_ = godotenv.Load()

	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/default.yaml")
	if err != nil {
		log.Fatalf("bootstrap api runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run api: %v", err)
	}
}
