package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency"`
	BodyLimit   int    `koanf:"body_limit"`
	AppName     string `koanf:"app_name"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

// Module tags log lines and error payloads with the emitting subsystem.
type Module string

const (
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleDatabase  Module = "database"
	ModuleMilvus    Module = "milvus"
	ModuleOpenAI    Module = "openai"
	ModuleAnalyzer  Module = "analyzer"
	ModuleRetriever Module = "retriever"
	ModuleSearch    Module = "search"
	ModuleStats     Module = "stats"
	ModuleChat      Module = "chat"
	ModuleCors      Module = "cors"
)

type databaseConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         int    `koanf:"port" validate:"required"`
	User         string `koanf:"user" validate:"required"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name" validate:"required"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"`
}

type openaiConfig struct {
	Key            string `koanf:"key"`
	Model          string `koanf:"model" validate:"required"`
	EmbeddingModel string `koanf:"embedding_model" validate:"required"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
	AllowMethods []string `koanf:"allow_methods"`
	AllowHeaders []string `koanf:"allow_headers"`
}

type milvusConfig struct {
	Address         string          `koanf:"address" validate:"required"`
	Collection      string          `koanf:"collection" validate:"required"`
	IndexHNSWConfig indexHNSWConfig `koanf:"index_hnsw_config"`
}

type indexHNSWConfig struct {
	MetricType     string `koanf:"metric_type"`
	M              int    `koanf:"m"`
	EfConstruction int    `koanf:"ef_construction"`
}

// searchConfig holds the retrieval-pipeline tunables. The overlap threshold
// and widening factors were calibrated on the source corpus; treat them as a
// starting point, not ground truth.
type searchConfig struct {
	TopK               int     `koanf:"top_k" validate:"required"`
	FallbackWindowDays int     `koanf:"fallback_window_days" validate:"required"`
	OverlapThreshold   float64 `koanf:"overlap_threshold"`
	MaxCandidates      int     `koanf:"max_candidates"`
}

type config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	OpenAI   openaiConfig   `koanf:"openai"`
	Milvus   milvusConfig   `koanf:"milvus"`
	Search   searchConfig   `koanf:"search"`
	Cors     corsConfig     `koanf:"cors"`
	LogLevel logLevel       `koanf:"log_level"`
	Dns      string         `koanf:"dns"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

var defaultConfig = config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   4 * 1024 * 1024,
		AppName:     "work-report-rag",
	},
	Database: databaseConfig{
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "",
		Name:         "worklog",
		MaxIdleConns: 4,
		MaxOpenConns: 16,
		MaxLifetime:  30,
	},
	OpenAI: openaiConfig{
		Key:            "",
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	},
	Milvus: milvusConfig{
		Address:    "localhost:19530",
		Collection: "report_chunks",
		IndexHNSWConfig: indexHNSWConfig{
			MetricType:     "L2",
			M:              16,
			EfConstruction: 128,
		},
	},
	Search: searchConfig{
		TopK:               5,
		FallbackWindowDays: 365,
		OverlapThreshold:   0.5,
		MaxCandidates:      10000,
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

// Init loads configuration from the given yaml path plus APP_* env overrides.
// A missing file is not an error; defaults stay in effect.
func Init(path string) error {
	var initErr error
	once.Do(func() {
		k := koanf.New(".")
		Cfg = defaultConfig

		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !os.IsNotExist(e) {
			initErr = e
			return
		}

		// env APP_SERVER_PORT -> server.port
		if e := k.Load(env.Provider("APP_", ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "_", ".")
		}), nil); e != nil {
			initErr = e
			return
		}

		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
			initErr = e
			return
		}

		if Cfg.Dns == "" {
			Cfg.Dns = buildMySQLDSN(Cfg.Database)
		}

		validate := validator.New()
		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v: config validation failed:\n", ModuleSetting))
				for _, e := range errs {
					sb.WriteString(fmt.Sprintf("  %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()))
				}
				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
			initErr = err
		}
	})
	return initErr
}

func init() {
	_ = Init("config.yaml")
}
