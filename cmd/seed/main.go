package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"myflix-api/internal/config"
	"myflix-api/internal/domain"
	"myflix-api/internal/logging"
	"myflix-api/internal/repository/backend"
	"myflix-api/internal/service"
	"myflix-api/internal/storage"
)

func main() {
	file := flag.String("file", "", "load the catalog from a local JSON file instead of S3")
	prefix := flag.String("prefix", "", "import every .json object under this S3 prefix")
	workers := flag.Int("workers", 4, "concurrent downloads and writes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file, *prefix, *workers, logger); err != nil {
		stop()
		logger.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, file, prefix string, workers int, logger *logrus.Logger) error {
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	defer store.Close(context.Background())

	importer := service.NewCatalogImporter(store.Movies, workers, logger)

	movies, err := loadCatalog(ctx, cfg, importer, file, prefix, logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	n, err := importer.Import(ctx, movies)
	if err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	logger.WithField("movies", n).Info("catalog imported")
	return nil
}

func loadCatalog(ctx context.Context, cfg config.Config, importer *service.CatalogImporter, file, prefix string, logger *logrus.Logger) ([]domain.Movie, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		logger.WithField("file", file).Info("reading catalog file")
		return service.DecodeCatalog(f)
	}

	objects, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	keys := []string{cfg.Storage.Key}
	if prefix != "" {
		keys, err = importer.CatalogKeys(ctx, objects, cfg.Storage.Bucket, prefix)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("no .json objects under %s/%s", cfg.Storage.Bucket, prefix)
		}
	}
	return importer.FetchCatalog(ctx, objects, cfg.Storage.Bucket, keys)
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, errors.New("storage bucket is required without -file")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
