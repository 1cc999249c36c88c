package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blogpress-hq/blogpress-client/internal/app"
	"github.com/blogpress-hq/blogpress-client/internal/composer"
	"github.com/blogpress-hq/blogpress-client/internal/config"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "composer failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	draftPath := flag.String("draft", "", "path to a YAML post draft to publish")
	token := flag.String("token", "", "store this bearer credential and exit if no draft is given")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := app.NewWriter(cfg, log)
	if err != nil {
		return err
	}
	defer writer.Close()

	if *token != "" {
		if err := writer.SaveToken(*token); err != nil {
			return err
		}
		fmt.Println("credential stored")
	}

	if *draftPath == "" {
		if *token == "" {
			flag.Usage()
			return fmt.Errorf("nothing to do: pass -draft and/or -token")
		}
		return nil
	}

	err = writer.PublishDraft(ctx, *draftPath)
	var verr *composer.ValidationError
	switch {
	case err == nil:
		fmt.Println("post published")
		return nil
	case errors.As(err, &verr):
		for field, msg := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s %s\n", field, msg)
		}
		return fmt.Errorf("draft is incomplete")
	case errors.Is(err, composer.ErrNotAuthenticated):
		return fmt.Errorf("not authenticated: store a credential with -token first")
	case errors.Is(err, composer.ErrSessionExpired):
		return fmt.Errorf("session expired: log in again and store a fresh credential with -token")
	default:
		return err
	}
}
