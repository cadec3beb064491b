package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gitlab.com/tecnomovil/imei-docfinder/lib"
	"gitlab.com/tecnomovil/imei-docfinder/lib/cache"
	"gitlab.com/tecnomovil/imei-docfinder/lib/cache/local"
	"gitlab.com/tecnomovil/imei-docfinder/lib/cache/remote"
	"gitlab.com/tecnomovil/imei-docfinder/lib/fetcher"
	"gitlab.com/tecnomovil/imei-docfinder/lib/mapping"
	"gitlab.com/tecnomovil/imei-docfinder/lib/sheets"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// config structure
type docfinderConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Server   struct {
		HttpPort int `mapstructure:"http_port"`
	}
	Sheets  sheets.Config
	Columns mapping.Columns
	Cache   struct {
		Backend    cache.Type
		TTLSeconds int `mapstructure:"ttl_seconds"`
	}
	Redis remote.RedisConfig
	Fetch struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	}
	MaxEmbedBytes int64 `mapstructure:"max_embed_bytes"`
}

var config docfinderConfig

func initConfig() {
	// Set default config values
	err := lib.InitializeConfig("./config/docfinder.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port": 8080,
		},
		"sheets": map[string]interface{}{
			"spreadsheet_name": "",
			"worksheet_name":   "",
			"credentials_file": "./config/service-account.json",
		},
		"columns": map[string]interface{}{
			"identifier": "IMEI",
			"reference":  "PDF_URL",
		},
		"cache": map[string]interface{}{
			"backend":     cache.Local,
			"ttl_seconds": 600,
		},
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
			"key":  "docfinder:snapshot",
		},
		"fetch": map[string]interface{}{
			"timeout_seconds": 30,
		},
		"max_embed_bytes": 10 << 20,
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	initConfig()
	ctx := context.Background()

	if config.Sheets.SpreadsheetName == "" || config.Sheets.WorksheetName == "" {
		log.Fatal().Msg("sheets.spreadsheet_name and sheets.worksheet_name must be configured")
	}

	// a missing or malformed service account credential should fail at boot,
	// not on the first search
	credentials, err := ioutil.ReadFile(config.Sheets.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("could not read the service account credentials file")
	}
	if _, err := google.CredentialsFromJSON(ctx, credentials,
		driveapi.DriveReadonlyScope, sheetsapi.SpreadsheetsReadonlyScope); err != nil {
		log.Fatal().Err(err).Msg("invalid service account credentials")
	}

	sheetsClient, err := sheets.New(ctx, config.Sheets)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	ttl := time.Duration(config.Cache.TTLSeconds) * time.Second
	var store cache.Store
	switch config.Cache.Backend {
	case cache.Local:
		store = local.New(ttl)
	case cache.Redis:
		redisStore := remote.NewRedisClient(config.Redis, ttl)
		if !redisStore.Ready() {
			log.Fatal().Msg("redis is not reachable")
		}
		store = redisStore
	default:
		log.Fatal().Str("backend", string(config.Cache.Backend)).Msg("invalid cache backend type")
	}

	ctrl := controller{
		snapshots: mapping.NewCachedLoader(mapping.NewSheetLoader(sheetsClient, config.Columns), store),
		documents: fetcher.New(time.Duration(config.Fetch.TimeoutSeconds) * time.Second),
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())
	r.SetHTMLTemplate(loadTemplates())

	s := server{controller: ctrl, maxEmbedBytes: config.MaxEmbedBytes}
	s.RegisterRoutes(r)

	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
