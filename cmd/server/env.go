package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment    string
	ServerAddress  string
	SecretKey      string
	FieldToken     string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string

	// FieldZoneCount is how many zones each field controller drives; the
	// poll payload always carries exactly this many entries.
	FieldZoneCount int

	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	env := Environment{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		SecretKey:      os.Getenv("JWT_SECRET"),
		FieldToken:     os.Getenv("FIELD_TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  os.Getenv("MQTT_CLIENT_ID"),

		UploadDir: os.Getenv("UPLOAD_DIR"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}

	env.FieldZoneCount = 3
	if raw := os.Getenv("FIELD_ZONE_COUNT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Fatal().Str("value", raw).Msg("FIELD_ZONE_COUNT must be a positive integer")
		}
		env.FieldZoneCount = n
	}

	if env.MQTTClientID == "" {
		env.MQTTClientID = "invernadero-server"
	}
	if env.UploadDir == "" {
		env.UploadDir = "./uploads"
	}

	if env.DatabaseURL == "" || env.SecretKey == "" || env.ServerAddress == "" || env.FieldToken == "" {
		log.Fatal().Msg("missing required environment variables (DATABASE_URL, JWT_SECRET, SERVER_ADDRESS, FIELD_TOKEN)")
	}

	return env
}
