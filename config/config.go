package config

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type Config struct {
	MinIOBucket   string        `yaml:"minio_bucket"`
	App           App           `yaml:"app"`
	DB            *sql.DB       `yaml:"db"`
	Queue         *RabbitMQ     `yaml:"rabbitmq"`
	Storage       *minio.Client `yaml:"storage"`
	Mirror        *redis.Client `yaml:"mirror"`
	Server        Server        `yaml:"server"`
	Conference    Conference    `yaml:"conference"`
	Workspace     Workspace     `yaml:"workspace"`
	Transcription Transcription `yaml:"transcription"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Conference holds the server-to-server OAuth app for the conferencing
// provider's account recordings feed.
type Conference struct {
	AccountID    string `yaml:"account_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Workspace holds the calendar/file provider credentials: a service
// account key for domain-wide delegation plus the standing tenant-wide
// refresh token used as the last-resort credential.
type Workspace struct {
	ServiceAccountJSON []byte `yaml:"-"`
	ClientID           string `yaml:"client_id"`
	ClientSecret       string `yaml:"client_secret"`
	RefreshToken       string `yaml:"refresh_token"`
}

type Transcription struct {
	APIKey string `yaml:"api_key"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host: viper.GetString("rabbitmq_host"),
		Port: viper.GetInt("rabbitmq_port"),
		User: viper.GetString("rabbitmq_user"),
		Pass: viper.GetString("rabbitmq_pass"),
		Kind: viper.GetString("rabbitmq_kind"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	mirrorClient := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("mirror.addr"),
		Password: viper.GetString("mirror.password"),
		DB:       viper.GetInt("mirror.db"),
	})

	// The service account key is optional, tenants without delegation
	// fall back to the standing token.
	var serviceAccountJSON []byte
	if keyFile := viper.GetString("workspace.service_account_file"); keyFile != "" {
		serviceAccountJSON, err = os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		MinIOBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Conference: Conference{
			AccountID:    viper.GetString("conference.account_id"),
			ClientID:     viper.GetString("conference.client_id"),
			ClientSecret: viper.GetString("conference.client_secret"),
		},
		Workspace: Workspace{
			ServiceAccountJSON: serviceAccountJSON,
			ClientID:           viper.GetString("workspace.client_id"),
			ClientSecret:       viper.GetString("workspace.client_secret"),
			RefreshToken:       viper.GetString("workspace.refresh_token"),
		},
		Transcription: Transcription{
			APIKey: viper.GetString("transcription.api_key"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
		Mirror:  mirrorClient,
	}, nil
}
