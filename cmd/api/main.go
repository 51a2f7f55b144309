package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dailyTracker/internal/app"
	"dailyTracker/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("TRACKER_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфигурация:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "инициализация:", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "сервер:", err)
		os.Exit(1)
	}
}
