package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// S3SourceConfig holds configuration for an S3-backed catalog source
type S3SourceConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// Key is the object holding the catalog as a JSON array of products
	Key          string
	UsePathStyle bool
}

// S3Source loads the product catalog from a JSON object in S3-compatible
// storage. The external catalog owner publishes the object; this source
// only reads it.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source creates a new S3Source with the given configuration
func NewS3Source(ctx context.Context, cfg S3SourceConfig) (*S3Source, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
	}, nil
}

// catalogEntry is the wire format of one product in the catalog object.
type catalogEntry struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"price"`
	AvailableForSale bool     `json:"availableForSale"`
	Tags             []string `json:"tags"`
}

// Products fetches and decodes the catalog object.
func (s *S3Source) Products(ctx context.Context) ([]domain.CatalogItem, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog object %s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	var entries []catalogEntry
	if err := json.NewDecoder(out.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog object: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(entries))
	for _, e := range entries {
		item := domain.CatalogItem{
			ID:               e.ID,
			Handle:           e.Handle,
			Title:            e.Title,
			Description:      e.Description,
			Price:            domain.Price{Amount: e.Price.Amount, Currency: e.Price.CurrencyCode},
			AvailableForSale: e.AvailableForSale,
			Tags:             e.Tags,
		}
		if err := domain.ValidateCatalogItem(&item); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}
