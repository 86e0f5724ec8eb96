package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config collects the knobs of the surrounding orchestration, the region
// classification itself is not configurable.
type Config struct {
	Crypt   CryptConfig   `yaml:"crypt"`
	Wiper   WiperConfig   `yaml:"wiper"`
	Fixture FixtureConfig `yaml:"fixture"`
}

// CryptConfig locates the external disk encryption tool used to map the
// decrypted volume and to dump the container metadata report.
type CryptConfig struct {
	Binary string `yaml:"binary"`
	Slot   int    `yaml:"slot"`
}

type WiperConfig struct {
	ChunkSize int `yaml:"chunksize"`
}

type FixtureConfig struct {
	Compression string `yaml:"compression"` // zstd or gzip
	Level       int    `yaml:"level"`
	Hash        string `yaml:"hash"` // MD5 or SHA1
}

func Default() Config {
	return Config{
		Crypt:   CryptConfig{Binary: "veracrypt", Slot: 1},
		Wiper:   WiperConfig{ChunkSize: 4 * 1024 * 1024},
		Fixture: FixtureConfig{Compression: "zstd", Level: 3, Hash: "SHA1"},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path keeps
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Wiper.ChunkSize <= 0 {
		cfg.Wiper.ChunkSize = Default().Wiper.ChunkSize
	}
	return cfg, nil
}
