package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"webshop/models"
)

type DatabaseConfig struct {
	Username string `yaml:"username" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     string `yaml:"port" envconfig:"DB_PORT"`
	Database string `yaml:"database" envconfig:"DB_NAME"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	Database int    `yaml:"database" envconfig:"REDIS_DB"`
}

type JWTConfig struct {
	Secret         string `yaml:"secret" envconfig:"JWT_SECRET"`
	TokenTTLMinute int    `yaml:"tokenTTLMinute" envconfig:"JWT_TTL_MINUTE"`
}

// TokenTTL is the configured token lifetime.
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinute) * time.Minute
}

type ServerConfig struct {
	Addr      string `yaml:"addr" envconfig:"SERVER_ADDR"`
	ImagesDir string `yaml:"imagesDir" envconfig:"IMAGES_DIR"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Server   ServerConfig   `yaml:"server"`
}

// LoadConfig reads the yaml file and then applies WEBSHOP_* environment
// overrides, so deployments can replace any field without editing the file.
func LoadConfig(filename string) (Config, error) {
	var config Config
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	if err := envconfig.Process("WEBSHOP", &config); err != nil {
		return config, err
	}

	if config.JWT.TokenTTLMinute == 0 {
		config.JWT.TokenTTLMinute = 60
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":5000"
	}
	if config.Server.ImagesDir == "" {
		config.Server.ImagesDir = "./public/images"
	}

	return config, nil
}

func SetupMySQLConnection(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Database.Username,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func SetupRedisConnection(config Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.Database,
	})

	return redisClient, nil
}
