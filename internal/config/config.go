package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64
}

type SecurityConfig struct {
	ClientTokenSecret string
	ClientTokenTTL    time.Duration
	PasswordScheme    string
}

type OTPConfig struct {
	ResendCooldown time.Duration
	// RevealCode returns the code in send responses and enables the pending
	// endpoint. Demo only.
	RevealCode bool
}

type DemoConfig struct {
	AllowRoleSwitch    bool
	PlatformOwnerEmail string
	Seed               bool
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

type SessionsConfig struct {
	IdleTimeout   time.Duration
	PruneSchedule string
}

type WorkerConfig struct {
	// InviteURL is the accept page linked from invite e-mails.
	InviteURL     string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Redis            RedisConfig
	Security         SecurityConfig
	OTP              OTPConfig
	Demo             DemoConfig
	RateLimit        RateLimitConfig
	Sessions         SessionsConfig
	Worker           WorkerConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

// IsProduction reports whether demo-only capabilities must be refused.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	return load(v)
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetEnvPrefix("WORKPULSE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.IsProduction() {
		if c.Security.ClientTokenSecret == devClientTokenSecret {
			return fmt.Errorf("security.clienttokensecret must be set in production")
		}
		// Demo capabilities never ship in a production build.
		c.Demo.AllowRoleSwitch = false
		c.OTP.RevealCode = false
	}
	if c.OTP.ResendCooldown < 0 {
		return fmt.Errorf("otp.resendcooldown must not be negative")
	}
	return nil
}

const devClientTokenSecret = "workpulse-dev-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "access:events")
	v.SetDefault("redis.maxlen", 10000)

	v.SetDefault("security.clienttokensecret", devClientTokenSecret)
	v.SetDefault("security.clienttokenttl", "24h")
	v.SetDefault("security.passwordscheme", "plain")

	v.SetDefault("otp.resendcooldown", "30s")
	v.SetDefault("otp.revealcode", true)

	v.SetDefault("demo.allowroleswitch", true)
	v.SetDefault("demo.platformowneremail", "owner@workpulse.io")
	v.SetDefault("demo.seed", true)

	v.SetDefault("ratelimit.persecond", 5)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("sessions.idletimeout", "2h")
	v.SetDefault("sessions.pruneschedule", "0 */10 * * * *")

	v.SetDefault("worker.inviteurl", "http://localhost:5173/invite")
	v.SetDefault("worker.group", "access-delivery")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "10s")

	v.SetDefault("logging.level", "")
	v.SetDefault("allowcorsorigins", []string{"http://localhost:5173"})
}
