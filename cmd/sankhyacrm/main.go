package main

import (
	"flag"
	"log/slog"
	"time"

	"sankhyacrm/bot"
	"sankhyacrm/impl/core"
	"sankhyacrm/internal/config"
	repository "sankhyacrm/internal/database/mongo"
	"sankhyacrm/internal/http-server/api"
	"sankhyacrm/internal/lib/logger"
	"sankhyacrm/internal/lib/sl"
	"sankhyacrm/internal/services"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	lg.Info("starting sankhyacrm", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	services.Configure(conf.Sankhya.RateLimit, conf.Sankhya.RateBurst)

	sankhya := services.NewSankhyaService(conf, lg)

	audit, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.Error("mongo client", sl.Err(err))
	}
	if audit != nil {
		sankhya.SetAuditor(audit)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("database", conf.Mongo.Database),
		).Info("audit trail initialized")

		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()

			for range ticker.C {
				deleted, err := audit.DeleteExpired()
				if err != nil {
					lg.Error("deleting expired audit records", sl.Err(err))
					continue
				}
				if deleted > 0 {
					lg.Info("expired audit records deleted", slog.Int64("count", deleted))
				}
			}
		}()
	}

	handler := core.New(lg, conf)
	handler.SetLeads(services.NewLeadsService(sankhya, lg))
	handler.SetFunnels(services.NewFunnelsService(sankhya, lg))
	handler.SetPartners(services.NewPartnersService(sankhya, lg))
	handler.SetUsers(services.NewUsersService(sankhya, lg))

	if err := api.New(conf, lg, handler); err != nil {
		lg.Error("api server", sl.Err(err))
	}

	lg.Error("service stopped")
}
