package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/notify"
	"github.com/greensys-tech/invernadero/internal/redis"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env := LoadEnvironment()
	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	storageSystem := InitStorage(env)

	// A dead broker is not fatal: notifications still reach websocket
	// clients through the hub.
	mqttClient, err := notify.ConnectBroker(env.MQTTBrokerURL, env.MQTTClientID)
	if err != nil {
		log.Warn().Err(err).Msg("running without MQTT broker")
	}
	defer notify.Disconnect(mqttClient)

	hub := notify.NewHub()
	fanout := notify.NewFanout(mqttClient, hub)

	store := db.NewStore()
	engine := schedule.New(store, fanout)
	monitor := schedule.NewMonitor(engine)

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, engine, monitor, hub)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
