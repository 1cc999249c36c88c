package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blogpress-hq/blogpress-client/internal/app"
	"github.com/blogpress-hq/blogpress-client/internal/config"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/pkg/share"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reader failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	postID := flag.String("id", "", "post id to render")
	refresh := flag.Bool("refresh", false, "fetch the post collection before rendering")
	outPath := flag.String("out", "", "write the rendered HTML to this file instead of stdout")
	sharePlatform := flag.String("share", "", "print a share link for the post (facebook, twitter, linkedin)")
	copyLink := flag.Bool("copy-link", false, "copy the post page URL to the clipboard")
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

	reader, err := app.NewReader(cfg, log)
	if err != nil {
		return err
	}
	defer reader.Close()

	if *refresh {
		if err := reader.Refresh(ctx); err != nil {
			return err
		}
	}

	if *postID == "" {
		flag.Usage()
		return fmt.Errorf("missing -id")
	}

	if *sharePlatform != "" {
		link, err := reader.ShareURL(*postID, share.Platform(*sharePlatform))
		if err != nil {
			return err
		}
		fmt.Println(link)
	}

	if *copyLink {
		if err := reader.CopyLink(*postID); err != nil {
			return err
		}
		fmt.Println("link copied to clipboard")
	}

	doc, err := reader.RenderPost(*postID)
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	fmt.Print(doc)
	return nil
}
