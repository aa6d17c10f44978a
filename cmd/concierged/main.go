package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	concierge "github.com/SigireddyBalasai/hey-bear-sub000"
	"github.com/SigireddyBalasai/hey-bear-sub000/audit"
	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore/pinecone"
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/crawler"
	"github.com/SigireddyBalasai/hey-bear-sub000/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "concierged",
		Usage: "Web content ingestion service for concierge knowledge bases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the ingestion HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "crawler-url",
						Usage:   "Crawl service base URL",
						EnvVars: []string{"CRAWL4AI_URL"},
					},
					&cli.StringFlag{
						Name:    "crawler-key",
						Usage:   "Crawl service API key",
						EnvVars: []string{"CRAWL4AI_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "store-key",
						Usage:   "Content store API key",
						EnvVars: []string{"PINECONE_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "store-url",
						Usage:   "Content store base URL override",
						EnvVars: []string{"PINECONE_BASE_URL"},
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Maximum concurrent ingestions (0 = number of CPUs)",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Include error detail in 500 responses",
					},
				},
			},
			{
				Name:  "apikey",
				Usage: "Manage API keys",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Issue a new API key for an owner",
						Action: apikeyCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "owner",
								Usage:    "Owner id the key authenticates as",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "label",
								Usage: "Human readable key label",
							},
						},
					},
				},
			},
			{
				Name:  "destination",
				Usage: "Manage ingestion destinations",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a destination",
						Action: destinationAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "owner",
								Usage:    "Owner id",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "name",
								Usage:    "Destination name",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "store-index",
								Usage:    "Content store index backing the destination",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List an owner's destinations",
						Action: destinationListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "owner",
								Usage:    "Owner id",
								Required: true,
							},
						},
					},
					{
						Name:   "audit",
						Usage:  "Verify every destination's content store index",
						Action: destinationAuditCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "store-key",
								Usage:   "Content store API key",
								EnvVars: []string{"PINECONE_API_KEY"},
							},
							&cli.StringFlag{
								Name:    "store-url",
								Usage:   "Content store base URL override",
								EnvVars: []string{"PINECONE_BASE_URL"},
							},
							&cli.IntFlag{
								Name:  "max-retries",
								Usage: "Maximum probe attempts per destination",
								Value: 3,
							},
							&cli.DurationFlag{
								Name:  "retry-delay",
								Usage: "Base delay for exponential backoff",
								Value: 1 * time.Second,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	// Validate flags
	crawlerURL := c.String("crawler-url")
	if crawlerURL == "" {
		return fmt.Errorf("crawler-url is required (flag or CRAWL4AI_URL)")
	}
	storeKey := c.String("store-key")
	if storeKey == "" {
		return fmt.Errorf("store-key is required (flag or PINECONE_API_KEY)")
	}

	// Open database
	db, err := concierge.OpenDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Crawl service client. The key is validated here, at startup, so a
	// misconfigured deployment fails before it takes traffic.
	crawlClient, err := crawler.NewClient(crawlerURL, c.String("crawler-key"))
	if err != nil {
		return fmt.Errorf("failed to create crawl client: %w", err)
	}

	var storeOpts []pinecone.Option
	if baseURL := c.String("store-url"); baseURL != "" {
		storeOpts = append(storeOpts, pinecone.WithBaseURL(baseURL))
	}
	store, err := pinecone.NewStore(storeKey, storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create content store client: %w", err)
	}

	pipeline, err := db.NewIngestionPipeline(crawlClient, store)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	serverOpts := []server.Option{server.WithDebug(c.Bool("debug"))}
	if size := c.Int("pool-size"); size > 0 {
		serverOpts = append(serverOpts, server.WithIngestPoolSize(size))
	}
	srv, err := server.NewServer(pipeline, db.DestinationRepository(), db.APIKeyRepository(), crawlClient, store, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func apikeyCreateCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := concierge.OpenDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	material, err := generateKeyMaterial()
	if err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}

	_, err = db.APIKeyRepository().AddAPIKey(ctx, &core.APIKey{
		Id:      core.IDFromContent(material),
		OwnerId: c.String("owner"),
		Label:   c.String("label"),
	})
	if err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}

	// The key material is shown once and never stored.
	fmt.Fprintf(os.Stderr, "API key for owner %s (store this now, it cannot be recovered):\n", c.String("owner"))
	fmt.Println(material)
	return nil
}

// generateKeyMaterial produces a 256-bit random key in hex.
func generateKeyMaterial() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func destinationAddCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := concierge.OpenDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	dest := &core.Destination{
		OwnerId:    c.String("owner"),
		Name:       c.String("name"),
		StoreIndex: c.String("store-index"),
	}
	if err := core.ValidateDestination(dest); err != nil {
		return err
	}

	saved, err := db.DestinationRepository().AddDestination(ctx, dest)
	if err != nil {
		return fmt.Errorf("failed to add destination: %w", err)
	}

	fmt.Printf("created destination %s (%s -> %s)\n", saved.Id, saved.Name, saved.StoreIndex)
	return nil
}

func destinationListCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := concierge.OpenDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	dests, err := db.DestinationRepository().GetDestinationsByOwner(ctx, c.String("owner"))
	if err != nil {
		return fmt.Errorf("failed to list destinations: %w", err)
	}

	if len(dests) == 0 {
		fmt.Println("no destinations")
		return nil
	}
	for _, dest := range dests {
		fmt.Printf("%s\t%s\t%s\t%s\n", dest.Id, dest.Name, dest.StoreIndex, dest.InsertedAt.Format(time.RFC3339))
	}
	return nil
}

func destinationAuditCommand(c *cli.Context) error {
	ctx := context.Background()

	storeKey := c.String("store-key")
	if storeKey == "" {
		return fmt.Errorf("store-key is required (flag or PINECONE_API_KEY)")
	}

	db, err := concierge.OpenDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var storeOpts []pinecone.Option
	if baseURL := c.String("store-url"); baseURL != "" {
		storeOpts = append(storeOpts, pinecone.WithBaseURL(baseURL))
	}
	store, err := pinecone.NewStore(storeKey, storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create content store client: %w", err)
	}

	config := audit.DefaultConfig()
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	auditor, err := audit.NewAuditor(db.DestinationRepository(), store, config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create auditor: %w", err)
	}

	report, err := auditor.Run(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	for _, finding := range report.Unhealthy() {
		fmt.Printf("%s\t%s\t%s\t%s\n",
			finding.Destination.Id, finding.Destination.Name,
			finding.Destination.StoreIndex, finding.Status)
	}
	if unhealthy := len(report.Unhealthy()); unhealthy > 0 {
		return fmt.Errorf("%d destinations unhealthy", unhealthy)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
