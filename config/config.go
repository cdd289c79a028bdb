package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Community CommunityConfigs
	Approval  ApprovalConfigs
	Cron      CronConfigs
}

type DatabaseConfigs struct {
	// Driver is either mysql or sqlite.
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string

	// SQLitePath is only used by the sqlite driver.
	SQLitePath string

	// SerializableTx runs every write transaction with SERIALIZABLE isolation.
	SerializableTx bool
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// MigrationConnectionString is the same as ConnectionString but allows
// multiple statements in a single migration file.
func (d *DatabaseConfigs) MigrationConnectionString() string {
	return d.ConnectionString() + "&multiStatements=true"
}

type APIServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string

	DefaultPageSize int
	MaxPageSize     int
}

func (c APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr     string
	ClientID string
}

type CommunityConfigs struct {
	MinTitleLength      int
	MaxTitleLength      int
	MinBodyLength       int
	MinAnswerBodyLength int
	MaxTags             int

	// Similar-thread detection.
	SimilarDebounce        time.Duration
	SimilarMinQueryLength  int
	SimilarMinScore        float64
	SimilarLimit           int
	SimilarCandidateWindow int
	DismissLengthDelta     int
	MinReadyTitleLength    int
}

type ApprovalConfigs struct {
	// Requests whose estimated credits reach this threshold need an admin
	// when the requester does not choose the approval level explicitly.
	AdminCreditThreshold int
}

type CronConfigs struct {
	ReconcileInterval time.Duration
	FlushViewInterval time.Duration
}

// Default returns configurations which are good enough for local running and
// tests. Every field can be overwritten by the config file or environment.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:     "mysql",
			Host:       "localhost",
			Port:       "3306",
			Database:   "abi",
			User:       "mysql",
			Password:   "mysql",
			SQLitePath: "abi.db",
		},
		ApiServer: APIServerConfigs{
			Host:            "",
			Port:            "8080",
			AllowedOrigins:  []string{"*"},
			DefaultPageSize: 20,
			MaxPageSize:     50,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Kafka: KafkaConfigs{
			ClientID: "abi-community",
		},
		Community: CommunityConfigs{
			MinTitleLength:         15,
			MaxTitleLength:         300,
			MinBodyLength:          30,
			MinAnswerBodyLength:    30,
			MaxTags:                5,
			SimilarDebounce:        400 * time.Millisecond,
			SimilarMinQueryLength:  5,
			SimilarMinScore:        0.3,
			SimilarLimit:           5,
			SimilarCandidateWindow: 500,
			DismissLengthDelta:     3,
			MinReadyTitleLength:    3,
		},
		Approval: ApprovalConfigs{
			AdminCreditThreshold: 500,
		},
		Cron: CronConfigs{
			ReconcileInterval: 24 * time.Hour,
			FlushViewInterval: time.Minute,
		},
	}
}
