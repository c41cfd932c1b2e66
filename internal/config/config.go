package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

var ErrUnknownStorage = errors.New("unknown storage driver")

type Config struct {
	LogLevel    string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Storage     string    `yaml:"storage" env:"STORAGE" env-default:"redis"`
	MetricsPort string    `yaml:"metrics-port" env:"METRICS_PORT" env-default:""`
	Redis       Redis     `yaml:"redis"`
	Accounts    []Account `yaml:"accounts"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Account - multi-signer account metadata seeded into the account store.
type Account struct {
	PublicKey string   `yaml:"public-key"`
	Threshold uint32   `yaml:"threshold"`
	Signers   []Signer `yaml:"signers"`
}

type Signer struct {
	PublicKey string `yaml:"public-key"`
	Weight    uint32 `yaml:"weight"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Storage != StorageRedis && config.Storage != StorageMemory {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// ToEntity decodes the hex keys of the account.
func (that *Account) ToEntity() (*entity.Account, error) {
	id, err := entity.ParseIdentity(that.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("account public key: %w", err)
	}

	account := &entity.Account{
		ID:        id,
		Threshold: that.Threshold,
		Signers:   make(map[entity.Identity]uint32, len(that.Signers)),
	}

	for _, signer := range that.Signers {
		signerID, err := entity.ParseIdentity(signer.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("signer of account %s: %w", id, err)
		}

		account.Signers[signerID] = signer.Weight
	}

	return account, nil
}
