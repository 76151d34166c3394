package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	Environment                   string        `mapstructure:"ENVIRONMENT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	SuperuserDiscordIDs           []string      `mapstructure:"SUPERUSER_DISCORD_IDS"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigins                   []string      `mapstructure:"CORS_ORIGINS"`
	CheckTolerance                time.Duration `mapstructure:"CHECK_TOLERANCE"`
	CertificateThreshold          float64       `mapstructure:"CERTIFICATE_THRESHOLD"`
	SMTPHost                      string        `mapstructure:"SMTP_HOST"`
	SMTPPort                      int           `mapstructure:"SMTP_PORT"`
	SMTPUsername                  string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword                  string        `mapstructure:"SMTP_PASSWORD"`
	MailFrom                      string        `mapstructure:"MAIL_FROM"`
	DispatchSchedule              string        `mapstructure:"DISPATCH_SCHEDULE"`
	DispatchBatchSize             int           `mapstructure:"DISPATCH_BATCH_SIZE"`
	DispatchMaxAttempts           int           `mapstructure:"DISPATCH_MAX_ATTEMPTS"`
	DispatchTimeout               time.Duration `mapstructure:"DISPATCH_TIMEOUT"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "attendance.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("CORS_ORIGINS", []string{"*"})
	viper.SetDefault("CHECK_TOLERANCE", 60*time.Minute)
	viper.SetDefault("CERTIFICATE_THRESHOLD", 75.0)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM", "no-reply@localhost")
	viper.SetDefault("DISPATCH_SCHEDULE", "@every 15s")
	viper.SetDefault("DISPATCH_BATCH_SIZE", 50)
	viper.SetDefault("DISPATCH_MAX_ATTEMPTS", 8)
	viper.SetDefault("DISPATCH_TIMEOUT", 30*time.Second)

	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("SUPERUSER_DISCORD_IDS")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ENABLE_CORS")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_USERNAME")
	viper.BindEnv("SMTP_PASSWORD")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// IsSuperuser reports whether the Discord account is configured as a superuser.
func (c *Config) IsSuperuser(discordID string) bool {
	for _, id := range c.SuperuserDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}
