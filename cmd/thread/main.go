package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"launchit/internal/config"
	"launchit/internal/repository"
	"launchit/internal/service/comments"

	"github.com/joho/godotenv"
)

func main() {
	projectID := flag.String("project", "", "Project whose thread to print (required)")
	expandAll := flag.Bool("expand-all", false, "Show every reply")
	toggle := flag.String("toggle", "", "Comma-separated comment IDs whose replies to toggle")
	verbose := flag.Bool("v", false, "Log store activity to stderr")
	flag.Parse()

	if *projectID == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := config.NewLogger(cfg, logOut)

	policy, err := comments.ParseOrphanPolicy(cfg.OrphanPolicy)
	if err != nil {
		log.Fatalf("Invalid orphan policy: %v", err)
	}

	ctx := context.Background()
	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()

	list, err := stores.Comments.ListByProject(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to list comments: %v", err)
	}
	roots := comments.NewTreeBuilder(policy).Build(list)

	// Replies start collapsed, as in the launch page
	visibility := comments.NewReplyVisibility()
	if *expandAll {
		visibility.ExpandAll(roots)
	}
	for _, id := range strings.Split(*toggle, ",") {
		if id = strings.TrimSpace(id); id != "" {
			visibility.Toggle(id)
		}
	}

	if len(roots) == 0 {
		fmt.Println("No comments yet.")
		return
	}

	fmt.Println(comments.RenderThread(roots, comments.RenderOptions{
		Now:        time.Now(),
		Visibility: visibility,
	}))
	logger.Debug("thread printed", "project_id", *projectID, "comments", len(list), "expanded", visibility.Expanded())
}
