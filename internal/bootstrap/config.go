package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	RedisUrl        string `mapstructure:"REDIS_URL"`
	MongoUri        string `mapstructure:"MONGO_URI"`
	IsLocalCors     bool   `mapstructure:"LOCAL_CORS"`
	PageLimitGames  int    `mapstructure:"PAGE_LIMIT_GAMES"`
	RequireSetupTag bool   `mapstructure:"REQUIRE_SETUP_TAG"`
	DefaultStartFen string `mapstructure:"DEFAULT_START_FEN"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("PAGE_LIMIT_GAMES", 20)
	viper.SetDefault("REQUIRE_SETUP_TAG", true)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
