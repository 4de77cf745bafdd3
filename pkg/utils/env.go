package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads a .env file from path when one exists and prepares viper
// to read the process environment.
func LoadConfig(path string) {
	envFile := filepath.Join(path, ".env")
	if err := godotenv.Load(envFile); err != nil {
		logrus.Debugf("[CONFIG] No .env loaded from %s: %v", envFile, err)
	}
	viper.AutomaticEnv()
}
