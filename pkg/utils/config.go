package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	TOTP     TOTPConfig
	OTP      OTPConfig
	SMS      SMSConfig
	OAuth    OAuthConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type TOTPConfig struct {
	Issuer           string
	ChallengeTTLMins int
	BackupCodeCount  int
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type SMSConfig struct {
	GatewayURL      string
	APIKey          string
	From            string
	MaxSendsPerHour int
	MaxVerifyPerMin int
}

type OAuthConfig struct {
	GoogleClientID    string
	FacebookAppID     string
	FacebookAppSecret string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("TOTP_ISSUER", "Mini E-Com")
	viper.SetDefault("TOTP_CHALLENGE_TTL_MINUTES", 5)
	viper.SetDefault("TOTP_BACKUP_CODE_COUNT", 10)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("SMS_MAX_SENDS_PER_HOUR", 3)
	viper.SetDefault("SMS_MAX_VERIFY_PER_MINUTE", 5)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		TOTP: TOTPConfig{
			Issuer:           viper.GetString("TOTP_ISSUER"),
			ChallengeTTLMins: viper.GetInt("TOTP_CHALLENGE_TTL_MINUTES"),
			BackupCodeCount:  viper.GetInt("TOTP_BACKUP_CODE_COUNT"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		SMS: SMSConfig{
			GatewayURL:      viper.GetString("SMS_GATEWAY_URL"),
			APIKey:          viper.GetString("SMS_API_KEY"),
			From:            viper.GetString("SMS_FROM"),
			MaxSendsPerHour: viper.GetInt("SMS_MAX_SENDS_PER_HOUR"),
			MaxVerifyPerMin: viper.GetInt("SMS_MAX_VERIFY_PER_MINUTE"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:    viper.GetString("GOOGLE_CLIENT_ID"),
			FacebookAppID:     viper.GetString("FACEBOOK_APP_ID"),
			FacebookAppSecret: viper.GetString("FACEBOOK_APP_SECRET"),
		},
	}

	return config, nil
}
