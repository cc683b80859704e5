package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string `yaml:"env" env:"ENV" env-default:"local" env-required:"true"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"0.0.0.0"`
		Port   string `yaml:"port" env-default:"8080"`
		ApiKey string `yaml:"api_key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
	Sankhya struct {
		// Static service identity traded for a bearer token. Empty
		// defaults make the credential exchange fail, not the boot.
		Token    string `yaml:"token" env:"SANKHYA_TOKEN" env-default:""`
		AppKey   string `yaml:"appkey" env:"SANKHYA_APPKEY" env-default:""`
		Username string `yaml:"username" env:"SANKHYA_USERNAME" env-default:""`
		Password string `yaml:"password" env:"SANKHYA_PASSWORD" env-default:""`

		LoginUrl string `yaml:"login_url" env-default:"https://api.sandbox.sankhya.com.br/login"`
		QueryUrl string `yaml:"query_url" env-default:"https://api.sandbox.sankhya.com.br/gateway/v1/mge/service.sbr?serviceName=CRUDServiceProvider.loadRecords&outputType=json"`
		SaveUrl  string `yaml:"save_url" env-default:"https://api.sandbox.sankhya.com.br/gateway/v1/mge/service.sbr?serviceName=DatasetSP.save&outputType=json"`

		RateLimit float64 `yaml:"rate_limit" env-default:"5"`
		RateBurst int     `yaml:"rate_burst" env-default:"10"`
	} `yaml:"sankhya"`
	SuperAdmin struct {
		Name     string `yaml:"name" env-default:"Super Admin"`
		Email    string `yaml:"email" env:"SUPER_ADMIN_EMAIL" env-default:"sup@sankhya.com.br"`
		Password string `yaml:"password" env:"SUPER_ADMIN_PASSWORD" env-default:""`
	} `yaml:"super_admin"`
	Mongo struct {
		Enabled     bool   `yaml:"enabled" env-default:"false"`
		Host        string `yaml:"host" env-default:"localhost"`
		Port        string `yaml:"port" env-default:"27017"`
		User        string `yaml:"user" env-default:""`
		Password    string `yaml:"password" env-default:""`
		Database    string `yaml:"database" env-default:"sankhyacrm"`
		ExpiredDays int    `yaml:"expired_days" env-default:"30"`
	} `yaml:"mongo"`
	Telegram struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BotName string `yaml:"bot_name" env-default:""`
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId string `yaml:"admin_id" env-default:""`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
