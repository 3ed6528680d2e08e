package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/Z-Wei-1117/survey-app/pkg/internal"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/cache"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/database"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/grpc"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/http"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/http/api"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____                            \n/ ___| _   _ _ ____   _____ _   _ \n\\___ \\| | | | '__\\ \\ / / _ \\ | | |\n ___) | |_| | |   \\ V /  __/ |_| |\n|____/ \\__,_|_|    \\_/ \\___|\\__, |\n                            |___/ "))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Survey.App"), pkg.AppVersion)
	fmt.Printf("The anonymous survey service\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetDefault("bind", "0.0.0.0:3000")
	viper.SetDefault("grpc_bind", "0.0.0.0:3001")
	viper.SetDefault("share_base_url", "http://localhost:3000/fill_survey.html?uuid=")
	viper.SetDefault("cors.allow_origins", []string{"*"})
	viper.SetDefault("database.driver", database.DriverPostgres)
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("cache.store", cache.KindMemory)
	viper.SetDefault("cache.form_ttl", "10m")
	viper.SetDefault("jobs.pool_stats_interval", "15m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.enabled") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Connect to database
	db, err := database.NewGorm(database.Config{
		Driver:          viper.GetString("database.driver"),
		Dsn:             viper.GetString("database.dsn"),
		MaxOpenConns:    viper.GetInt("database.max_open_conns"),
		MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		Debug:           viper.GetBool("debug.database"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(db); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Configure form cache
	formStore, err := cache.NewStore(context.Background(), cache.Config{
		Kind:          viper.GetString("cache.store"),
		RedisAddr:     viper.GetString("cache.redis_addr"),
		RedisPassword: viper.GetString("cache.redis_password"),
		RedisDB:       viper.GetInt("cache.redis_db"),
	})
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when setting up cache store. Survey forms will not be cached.")
	}

	// Assemble services
	surveys := services.NewSurveyService(db, services.NewCodeGenerator())
	surveys.SetShareBaseURL(viper.GetString("share_base_url"))
	surveys.SetFormCache(formStore, viper.GetDuration("cache.form_ttl"))
	if viper.GetBool("language.detect") {
		surveys.SetLanguageDetector(services.DetectLanguage)
	}
	controller := api.NewController(
		surveys,
		services.NewResponseService(db),
		services.NewResultService(db),
	)

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc(fmt.Sprintf("@every %s", viper.GetDuration("jobs.pool_stats_interval")), database.ReportPoolStats(db))
	quartz.Start()

	// Server
	server := http.NewServer(controller)
	go server.Listen()

	grpcServer := grpc.NewGrpc()
	grpcServer.SetServing(true)
	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Error().Err(err).Msg("An error occurred when running gRPC server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	grpcServer.Stop()
	if err := server.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("An error occurred when shutting down server...")
	}
	quartz.Stop()
}
