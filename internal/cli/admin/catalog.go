package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/catalog"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/config"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage catalog embeddings",
		Long:  "Initialize, rebuild, and inspect the product embedding store",
	}

	cmd.AddCommand(CatalogInitCmd())
	cmd.AddCommand(CatalogReinitCmd())
	cmd.AddCommand(CatalogStatusCmd())

	return cmd
}

func CatalogInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate embeddings for the product catalog",
		Long:  "Load the catalog, generate an embedding per product, and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogInit(false)
		},
	}
	return cmd
}

func CatalogReinitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reinit",
		Short: "Rebuild embeddings from scratch",
		Long:  "Delete all stored embeddings and regenerate them from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogInit(true)
		},
	}
	return cmd
}

func runCatalogInit(rebuild bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("COMMERCE_OPENAI_API_KEY is required")
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	items, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("catalog is empty, nothing to embed")
	}

	llm := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
	})
	embedder := service.NewEmbedder(llm, repository.NewEmbeddingRepository(pool), service.NewProductCache())

	var count int
	if rebuild {
		count, err = embedder.Reinitialize(ctx, items)
	} else {
		count, err = embedder.Initialize(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	fmt.Printf("Embedded %d products\n", count)
	return nil
}

func CatalogStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show embedding store status",
		Long:  "Report whether embeddings exist and how many products are indexed",
		RunE:  runCatalogStatus,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runCatalogStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	embeddingRepo := repository.NewEmbeddingRepository(pool)
	count, err := embeddingRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count embeddings: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"initialized": count > 0,
			"count":       count,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else if count > 0 {
		fmt.Printf("Embeddings initialized: %d products indexed\n", count)
	} else {
		fmt.Println("Embeddings not initialized")
	}

	return nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) ([]domain.CatalogItem, error) {
	if !cfg.HasS3() {
		return catalog.NewFixtureSource().Products(ctx)
	}

	source, err := catalog.NewS3Source(ctx, catalog.S3SourceConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		Key:             cfg.S3CatalogKey,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 catalog source: %w", err)
	}
	return source.Products(ctx)
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
