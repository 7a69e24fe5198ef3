// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"postgres", "sqlite"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("pin.encryption_key", "pin_encryption_key")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.allowed_types", "upload_allowed_types")
	v.BindEnv("upload.max_batch", "upload_max_batch")

	v.BindEnv("storage.account_id", "storage_account_id")
	v.BindEnv("storage.access_key_id", "storage_access_key_id")
	v.BindEnv("storage.secret_access_key", "storage_secret_access_key")
	v.BindEnv("storage.bucket", "storage_bucket")
	v.BindEnv("storage.public_base_url", "storage_public_base_url")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("upload.max_size", 20)
	v.SetDefault("upload.max_batch", 10)
	v.SetDefault("upload.allowed_types", []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if len(v.GetString("pin.encryption_key")) != 32 {
		return errors.New("pin.encryption_key must be exactly 32 bytes long")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("upload.max_batch") <= 0 {
		return errors.New("upload.max_batch must be bigger than 0")
	}

	if len(v.GetStringSlice("upload.allowed_types")) == 0 {
		zap.L().Warn("No upload.allowed_types specified, any file type will be accepted")
	}

	if v.GetString("storage.account_id") == "" {
		return errors.New("storage account id can't be empty")
	}
	if v.GetString("storage.access_key_id") == "" {
		return errors.New("storage access key id can't be empty")
	}
	if v.GetString("storage.secret_access_key") == "" {
		return errors.New("storage secret access key can't be empty")
	}
	if v.GetString("storage.bucket") == "" {
		return errors.New("storage bucket can't be empty")
	}
	if v.GetString("storage.public_base_url") == "" {
		return errors.New("storage public base url can't be empty")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
