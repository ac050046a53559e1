package core

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string `yaml:"env" env:"VIBELLA_ENV" env-default:"local"`
	Port         string `yaml:"port" env:"VIBELLA_PORT" env-default:"8000"`
	GeminiApiKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY" env-default:""`
	Model        string `yaml:"model" env:"VIBELLA_MODEL" env-default:"gemini-2.5-flash"`
	Mongo        struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"vibella_db"`
	} `yaml:"mongo"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
		ApiKey   string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		Username string `yaml:"username" env:"TELEGRAM_USERNAME" env-default:""`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if _, statErr := os.Stat(path); statErr == nil {
			err = cleanenv.ReadConfig(path, instance)
		} else {
			// no config file, environment only
			err = cleanenv.ReadEnv(instance)
		}
		if err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}

func MustLoad(path string) *Config {
	conf, err := GetConfig(path)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return conf
}

// MongoURI builds the connection string for the configured MongoDB instance.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		c.Mongo.User, c.Mongo.Password,
		c.Mongo.Host, c.Mongo.Port)
}
