package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"log/slog"
	"os"
)

type S3Config struct {
	ApiURL     string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string
}

type Config struct {
	DogAPIURL      string
	DiskAPIURL     string
	DiskToken      string
	BaseFolder     string
	ResultsFile    string
	Backend        string
	RequestTimeout time.Duration
	S3             S3Config
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		DogAPIURL:      getEnv("DOG_API_URL", "https://dog.ceo/api"),
		DiskAPIURL:     getEnv("DISK_API_URL", "https://cloud-api.yandex.net/v1/disk"),
		DiskToken:      getEnv("DISK_TOKEN", ""),
		BaseFolder:     getEnv("BASE_FOLDER", "DogImages"),
		ResultsFile:    getEnv("RESULTS_FILE", "dog_images_results.json"),
		Backend:        getEnv("STORAGE_BACKEND", "disk"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT", 30)) * time.Second,
		S3: S3Config{
			ApiURL:     getEnv("API_URL", ""),
			AccessKey:  getEnv("ACCESS_KEY", ""),
			SecretKey:  getEnv("SECRET_KEY", ""),
			BucketName: getEnv("BUCKET_NAME", ""),
			Region:     getEnv("REGION", ""),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}
