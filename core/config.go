package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string

		SecretKey          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration

		DefaultFromEmail string
		FrontendBaseURL  string
		SendgridApiKey   string
		RollbarToken     string
		Build            string

		Server     ServerConfig
		Database   DatabaseConfig
		ImageStore ImageStoreConfig
	}

	ServerConfig struct {
		Host string
		Port string
	}

	DatabaseConfig struct {
		URI  string
		Name string
	}

	ImageStoreConfig struct {
		BaseURL   string
		CloudName string
		ApiKey    string
		ApiSecret string
		Folder    string
	}
)

func (c Config) Address() string { return c.Server.Host + ":" + c.Server.Port }

func (c Config) DefaultFromEmailAddr() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

func init() {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "MCSA Student Awards")
	conf.SetDefault("secretKey", "jwt-secret-mcsa")
	conf.SetDefault("jwtExpirationDelta", 5*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 20*time.Second)
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8000")
	conf.SetDefault("databaseURI", "mongodb://localhost:27017")
	conf.SetDefault("databaseName", "mcsa_awards")
	conf.SetDefault("imageStoreBaseURL", "https://api.cloudinary.com/v1_1")
	conf.SetDefault("imageStoreFolder", "MCSA-Student-Awards")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	Conf = &Config{
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		Env:                env,
		AppName:            conf.GetString("appName"),
		SecretKey:          conf.GetString("secretKey"),
		JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
		DefaultFromEmail:   conf.GetString("defaultFromEmail"),
		FrontendBaseURL:    conf.GetString("frontendBaseURL"),
		SendgridApiKey:     conf.GetString("sendgridApiKey"),
		RollbarToken:       conf.GetString("rollbarToken"),
		Build:              conf.GetString("build"),
		Server: ServerConfig{
			Host: conf.GetString("serverHost"),
			Port: conf.GetString("serverPort"),
		},
		Database: DatabaseConfig{
			URI:  conf.GetString("databaseURI"),
			Name: conf.GetString("databaseName"),
		},
		ImageStore: ImageStoreConfig{
			BaseURL:   conf.GetString("imageStoreBaseURL"),
			CloudName: conf.GetString("imageStoreCloudName"),
			ApiKey:    conf.GetString("imageStoreApiKey"),
			ApiSecret: conf.GetString("imageStoreApiSecret"),
			Folder:    conf.GetString("imageStoreFolder"),
		},
	}
}
