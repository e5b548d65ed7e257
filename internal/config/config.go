package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Inventory InventoryConfig
	Forecast  ForecastConfig
	Events    EventsConfig
	Geocode   GeocodeConfig
	Storage   StorageConfig
	Alerts    AlertsConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port            string
	Mode            string
	LogLevel        string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type AppConfig struct {
	DataDir string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// InventoryConfig selects where the inventory snapshot is loaded from.
type InventoryConfig struct {
	Source               string // postgres | csv | drive | s3
	CSVPath              string
	DriveFolderID        string
	DriveCredentialsJSON string
	ObjectKey            string
}

// ForecastConfig selects the forecast provider.
type ForecastConfig struct {
	Provider         string // postgres | csv | static
	CSVPath          string
	Accuracy         float64
	SeasonalTrendPct float64
	TrendSummary     string
}

type EventsConfig struct {
	CalendarPath string
}

type GeocodeConfig struct {
	Provider       string // google | static | noop
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	Concurrency    int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type AlertsConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type SchedulerConfig struct {
	Enabled       bool
	SpikeCron     string
	ExportCron    string
	ExportPrefix  string
	JobTimeoutSec int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = fromViper()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "warehouseiq")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)

	viper.SetDefault("APP_DATA_DIR", "./data/output")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)

	viper.SetDefault("INVENTORY_SOURCE", "csv")
	viper.SetDefault("INVENTORY_CSV_PATH", "./data/inventory.csv")
	viper.SetDefault("INVENTORY_DRIVE_FOLDER_ID", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_JSON", "")
	viper.SetDefault("INVENTORY_OBJECT_KEY", "inventory/latest.csv")

	viper.SetDefault("FORECAST_PROVIDER", "static")
	viper.SetDefault("FORECAST_CSV_PATH", "./data/forecasts.csv")
	viper.SetDefault("FORECAST_ACCURACY", 92.5)
	viper.SetDefault("FORECAST_SEASONAL_TREND_PCT", 23)
	viper.SetDefault("FORECAST_TREND_SUMMARY", "Q4 holiday season trend detected")

	viper.SetDefault("EVENTS_CALENDAR_PATH", "")

	viper.SetDefault("GEOCODE_PROVIDER", "noop")
	viper.SetDefault("GEOCODE_API_KEY", "")
	viper.SetDefault("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json")
	viper.SetDefault("GEOCODE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("GEOCODE_CONCURRENCY", 4)

	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "warehouseiq")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_REGION", "")

	viper.SetDefault("ALERTS_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
	viper.SetDefault("KAFKA_SPIKE_TOPIC", "warehouseiq.demand-spikes")

	viper.SetDefault("SCHEDULER_ENABLED", false)
	viper.SetDefault("SCHEDULER_SPIKE_CRON", "*/15 * * * *")
	viper.SetDefault("SCHEDULER_EXPORT_CRON", "0 2 * * *")
	viper.SetDefault("SCHEDULER_EXPORT_PREFIX", "exports")
	viper.SetDefault("SCHEDULER_JOB_TIMEOUT_SECONDS", 120)
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Mode:            viper.GetString("SERVER_MODE"),
			LogLevel:        viper.GetString("LOG_LEVEL"),
			ReadTimeout:     viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:    viper.GetInt("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: viper.GetInt("SERVER_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt("DB_MAX_CONNS"),
		},
		App: AppConfig{
			DataDir: viper.GetString("APP_DATA_DIR"),
		},
		Cache: CacheConfig{
			Enabled:            viper.GetBool("CACHE_ENABLED"),
			RedisURL:           viper.GetString("REDIS_URL"),
			RedisHost:          viper.GetString("REDIS_HOST"),
			RedisPort:          viper.GetString("REDIS_PORT"),
			RedisPassword:      viper.GetString("REDIS_PASSWORD"),
			RedisDB:            viper.GetInt("REDIS_DB"),
			ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
		},
		Inventory: InventoryConfig{
			Source:               viper.GetString("INVENTORY_SOURCE"),
			CSVPath:              viper.GetString("INVENTORY_CSV_PATH"),
			DriveFolderID:        viper.GetString("INVENTORY_DRIVE_FOLDER_ID"),
			DriveCredentialsJSON: viper.GetString("GOOGLE_CREDENTIALS_JSON"),
			ObjectKey:            viper.GetString("INVENTORY_OBJECT_KEY"),
		},
		Forecast: ForecastConfig{
			Provider:         viper.GetString("FORECAST_PROVIDER"),
			CSVPath:          viper.GetString("FORECAST_CSV_PATH"),
			Accuracy:         viper.GetFloat64("FORECAST_ACCURACY"),
			SeasonalTrendPct: viper.GetFloat64("FORECAST_SEASONAL_TREND_PCT"),
			TrendSummary:     viper.GetString("FORECAST_TREND_SUMMARY"),
		},
		Events: EventsConfig{
			CalendarPath: viper.GetString("EVENTS_CALENDAR_PATH"),
		},
		Geocode: GeocodeConfig{
			Provider:       viper.GetString("GEOCODE_PROVIDER"),
			APIKey:         viper.GetString("GEOCODE_API_KEY"),
			BaseURL:        viper.GetString("GEOCODE_BASE_URL"),
			TimeoutSeconds: viper.GetInt("GEOCODE_TIMEOUT_SECONDS"),
			Concurrency:    viper.GetInt("GEOCODE_CONCURRENCY"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			Region:    viper.GetString("STORAGE_REGION"),
		},
		Alerts: AlertsConfig{
			Enabled: viper.GetBool("ALERTS_ENABLED"),
			Brokers: viper.GetStringSlice("KAFKA_BROKERS"),
			Topic:   viper.GetString("KAFKA_SPIKE_TOPIC"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       viper.GetBool("SCHEDULER_ENABLED"),
			SpikeCron:     viper.GetString("SCHEDULER_SPIKE_CRON"),
			ExportCron:    viper.GetString("SCHEDULER_EXPORT_CRON"),
			ExportPrefix:  viper.GetString("SCHEDULER_EXPORT_PREFIX"),
			JobTimeoutSec: viper.GetInt("SCHEDULER_JOB_TIMEOUT_SECONDS"),
		},
	}
}

// DSN builds a postgres connection string from the database section.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
