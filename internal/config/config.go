package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Gateway      Gateway      `mapstructure:",squash"`
	Assistant    Assistant    `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	DatasetAudit DatasetAudit `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Gateway agrupa a configuração do serviço externo de linguagem.
// O valor é resolvido uma única vez na inicialização e repassado por referência ao adaptador.
type Gateway struct {
	URL             string        `mapstructure:"gateway_url"`
	Token           string        `mapstructure:"gateway_token"`
	Model           string        `mapstructure:"gateway_model"`
	Temperature     float64       `mapstructure:"gateway_temperature"`
	MaxOutputTokens int           `mapstructure:"gateway_max_output_tokens"`
	Timeout         time.Duration `mapstructure:"gateway_timeout"`
}

// Enabled indica se o gateway foi configurado (endpoint e token presentes)
func (g Gateway) Enabled() bool {
	return g.URL != "" && g.Token != ""
}

type Assistant struct {
	HistoryContextSize int `mapstructure:"history_context_size"`
}

type App struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type Auth struct {
	Secret  string `mapstructure:"auth_secret"`
	Enabled bool   `mapstructure:"auth_enabled"`
}

type DatasetAudit struct {
	CronSchedule string `mapstructure:"dataset_audit_cron"`
	Enabled      bool   `mapstructure:"dataset_audit_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/traffic?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Sem URL/token o assistente responde apenas pelo caminho de regras
	viper.SetDefault("GATEWAY_URL", "")
	viper.SetDefault("GATEWAY_TOKEN", "")
	viper.SetDefault("GATEWAY_MODEL", "gpt-4.1-mini")
	viper.SetDefault("GATEWAY_TEMPERATURE", 0.2)
	viper.SetDefault("GATEWAY_MAX_OUTPUT_TOKENS", 700)
	viper.SetDefault("GATEWAY_TIMEOUT", "15s")

	viper.SetDefault("HISTORY_CONTEXT_SIZE", 10)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_ENABLED", true)

	viper.SetDefault("DATASET_AUDIT_CRON", "*/30 * * * *") // A cada 30 minutos
	viper.SetDefault("DATASET_AUDIT_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FORMAT", "text")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Gateway.Timeout <= 0 {
		config.Gateway.Timeout = 15 * time.Second
	}

	if config.Assistant.HistoryContextSize <= 0 {
		config.Assistant.HistoryContextSize = 10
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, seguindo apenas com variáveis de ambiente")
}
