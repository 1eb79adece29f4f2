package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	var (
		bucketName string
		objectName string
		filePath   string
	)

	flag.StringVar(&bucketName, "bucket", os.Getenv("SCAN_BUCKET"), "GCS bucket name (required, or SCAN_BUCKET env)")
	flag.StringVar(&objectName, "object", "", "Object name (optional; defaults to file name)")
	flag.StringVar(&filePath, "file", "", "Path to local document (required)")
	flag.Parse()

	if bucketName == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload -bucket BUCKET_NAME -file /path/to/receipt.jpg [-object OBJECT_NAME]")
	}
	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Failed to read file")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	client, err := gcs.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer client.Close()

	store := storage.NewGCSStore(client, bucketName)

	log.Info().
		Str("bucket", bucketName).
		Str("object", objectName).
		Str("file", filePath).
		Msg("Storing document")

	handle, err := store.Put(ctx, objectName, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Println(handle)
}
