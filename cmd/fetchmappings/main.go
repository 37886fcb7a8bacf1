package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/isoterrain/internal/mappings"
)

func main() {
	var (
		src = flag.String("src", "", "mapping source (path, git::, https://, s3:: address)")
		out = flag.String("o", "./mappings", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("mapping source required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := mappings.Fetch(ctx, *src, *out, log); err != nil {
		log.Error("fetch mappings", "error", err)
		os.Exit(1)
	}

	m := mappings.Load(*out, log)
	log.Info("mapping ready", "dir", *out, "pairs", m.Len())
}
