package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"creative-assigner/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App              `json:"app"`
	Database    Database         `json:"database"`
	RedisClient RedisClient      `json:"redisClient"`
	Pubsub      Pubsub           `json:"pubsub"`
	ServiceBus  ServiceBus       `json:"serviceBus"`
	Assignment  Assignment       `json:"assignment"`
	Platforms   []PlatformConfig `json:"platforms"`
	Events      Events           `json:"events"`
}

type App struct {
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mssql Db `json:"mssql"`
	// Driver selects the submission audit store: postgres, mssql or none.
	Driver string `json:"driver"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

func (d Db) Configured() bool { return d.Host != "" && d.Name != "" }

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
}

// Assignment tunes the drop gate and the submission flow.
type Assignment struct {
	DropCooldownMs           int `json:"dropCooldownMs"`
	LockReleaseMs            int `json:"lockReleaseMs"`
	SubmitTimeoutSeconds     int `json:"submitTimeoutSeconds"`
	SubmitHardTimeoutSeconds int `json:"submitHardTimeoutSeconds"`
	DirectoryCacheTTLSeconds int `json:"directoryCacheTTLSeconds"`
}

func (a Assignment) DropCooldown() time.Duration {
	return time.Duration(a.DropCooldownMs) * time.Millisecond
}

func (a Assignment) LockRelease() time.Duration {
	return time.Duration(a.LockReleaseMs) * time.Millisecond
}

func (a Assignment) SubmitTimeout() time.Duration {
	return time.Duration(a.SubmitTimeoutSeconds) * time.Second
}

func (a Assignment) SubmitHardTimeout() time.Duration {
	return time.Duration(a.SubmitHardTimeoutSeconds) * time.Second
}

func (a Assignment) DirectoryCacheTTL() time.Duration {
	return time.Duration(a.DirectoryCacheTTLSeconds) * time.Second
}

// PlatformConfig points a platform at its gateway. An empty BaseURL serves it from the mock platform.
type PlatformConfig struct {
	Name        string `json:"name"`
	BaseURL     string `json:"baseURL"`
	AccessToken string `json:"accessToken"`
	Enabled     bool   `json:"enabled"`
}

// Events selects where submission-complete events are forwarded: pubsub, servicebus or none.
type Events struct {
	Sink  string `json:"sink"`
	Topic string `json:"topic"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initAssignment(&C)
	initPlatforms(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
		return
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	fillFromEnv(&C.Database.Psql.Name, "DB_NAME")
	fillFromEnv(&C.Database.Psql.Host, "DB_HOST")
	fillFromEnv(&C.Database.Psql.Port, "DB_PORT")
	fillFromEnv(&C.Database.Psql.User, "DB_USER")
	fillFromEnv(&C.Database.Psql.Password, "DB_PASSWORD")

	fillFromEnv(&C.Database.Mssql.Name, "MSSQL_DB_NAME")
	fillFromEnv(&C.Database.Mssql.Host, "MSSQL_HOST")
	fillFromEnv(&C.Database.Mssql.Port, "MSSQL_PORT")
	fillFromEnv(&C.Database.Mssql.User, "MSSQL_USER")
	fillFromEnv(&C.Database.Mssql.Password, "MSSQL_PASSWORD")
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}

	fillFromEnv(&C.Database.Driver, "AUDIT_DB_DRIVER")
	if C.Database.Driver == "" {
		switch {
		case C.Database.Mssql.Configured():
			C.Database.Driver = "mssql"
		case C.Database.Psql.Configured():
			C.Database.Driver = "postgres"
		default:
			C.Database.Driver = "none"
		}
	}
	logger.GetLogger().WithField("driver", C.Database.Driver).Info("Submission audit store")
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true":
			C.App.TLSEnabled = true
		case "0", "false":
			C.App.TLSEnabled = false
		}
	}
	fillFromEnv(&C.App.TLSCertFile, "TLS_CERT_FILE")
	fillFromEnv(&C.App.TLSKeyFile, "TLS_KEY_FILE")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = strings.Split(v, ",")
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:4200", "http://localhost:4201", "https://localhost:4200", "https://localhost:4201"}
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initAssignment(C *Config) {
	a := &C.Assignment
	overrideInt(&a.DropCooldownMs, "DROP_COOLDOWN_MS")
	overrideInt(&a.SubmitTimeoutSeconds, "SUBMIT_TIMEOUT_SECONDS")
	defaultInt(&a.DropCooldownMs, 500)
	defaultInt(&a.LockReleaseMs, 50)
	defaultInt(&a.SubmitTimeoutSeconds, 30)
	defaultInt(&a.SubmitHardTimeoutSeconds, 300)
	defaultInt(&a.DirectoryCacheTTLSeconds, 300)
	if a.SubmitHardTimeoutSeconds < a.SubmitTimeoutSeconds {
		a.SubmitHardTimeoutSeconds = a.SubmitTimeoutSeconds
	}
}

// initPlatforms enables both built-in platforms in mock mode when none are configured.
func initPlatforms(C *Config) {
	if len(C.Platforms) > 0 {
		return
	}
	C.Platforms = []PlatformConfig{
		{Name: "facebook", Enabled: true},
		{Name: "tiktok", Enabled: true},
	}
}

// EnabledPlatforms returns the names of the enabled platforms.
func (c Config) EnabledPlatforms() []string {
	var out []string
	for _, p := range c.Platforms {
		if p.Enabled {
			out = append(out, strings.ToLower(p.Name))
		}
	}
	return out
}

func fillFromEnv(dst *string, key string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"key": key, "value": v}).Warn("Ignoring non-numeric override")
		return
	}
	*dst = n
}

func defaultInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}
