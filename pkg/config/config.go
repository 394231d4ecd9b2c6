// Package config loads application configuration from YAML, TOML or JSON
// files and applies ENV-prefixed overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

type Settings struct {
	Environment string
	ENVPrefix   string
	Debug       bool
	Verbose     bool
}

type Config struct {
	*Settings
}

// New initializes a Config.
func New(settings *Settings) *Config {
	if settings == nil {
		settings = &Settings{}
	}
	if os.Getenv("CONFIG_DEBUG_MODE") != "" {
		settings.Debug = true
	}
	return &Config{Settings: settings}
}

var testRegexp = regexp.MustCompile(`_test|(\.test$)`)

// GetEnvironment returns the configured environment, falling back to
// CONFIG_ENV, then "test" when running under the test binary, then
// "development".
func (c *Config) GetEnvironment() string {
	if c.Environment != "" {
		return c.Environment
	}
	if env := os.Getenv("CONFIG_ENV"); env != "" {
		return env
	}
	if testRegexp.MatchString(os.Args[0]) {
		return "test"
	}
	return "development"
}

// Load unmarshals the given files into cfg in order, then applies environment
// overrides. Missing files are skipped; a cfg that is not an addressable
// struct pointer is an error.
func (c *Config) Load(cfg interface{}, files ...string) error {
	value := reflect.Indirect(reflect.ValueOf(cfg))
	if !value.CanAddr() || value.Kind() != reflect.Struct {
		return fmt.Errorf("config %v should be an addressable struct", cfg)
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || !info.Mode().IsRegular() {
			if c.Verbose {
				fmt.Printf("Skipping configuration file %v\n", file)
			}
			continue
		}
		if err := processFile(cfg, file); err != nil {
			return err
		}
	}

	prefix := c.ENVPrefix
	if prefix == "" {
		prefix = "CONFIG"
	}
	return applyEnv(value, prefix)
}

func processFile(cfg interface{}, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	switch {
	case strings.HasSuffix(file, ".yaml") || strings.HasSuffix(file, ".yml"):
		return yaml.Unmarshal(data, cfg)
	case strings.HasSuffix(file, ".toml"):
		_, err := toml.Decode(string(data), cfg)
		return err
	case strings.HasSuffix(file, ".json"):
		return json.Unmarshal(data, cfg)
	default:
		return errors.New("unsupported config format: " + file)
	}
}

// applyEnv walks the struct and overrides each field from
// PREFIX_FIELDNAME-style variables, recursing into nested structs.
func applyEnv(value reflect.Value, prefix string) error {
	valueType := value.Type()
	for i := 0; i < valueType.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		name := prefix + "_" + strings.ToUpper(valueType.Field(i).Name)
		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, name); err != nil {
				return err
			}
			continue
		}

		env := os.Getenv(name)
		if env == "" {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(env)
		case reflect.Bool:
			switch strings.ToLower(env) {
			case "0", "f", "false":
				field.SetBool(false)
			default:
				field.SetBool(true)
			}
		default:
			if err := yaml.Unmarshal([]byte(env), field.Addr().Interface()); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
		}
	}
	return nil
}
