package config

import (
	"fmt"
	"os"
	"path"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/logger"
)

// EnvPrefix namespaces environment variables for iocapture. A prefixed
// variable wins over the bare one.
const EnvPrefix = "IOCAPTURE_"

// FileSystem abstracts the file lookups of the loader so resolution can be
// tested without touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config.yml and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths and searches for the missing ones.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	dirs := searchDirs(serviceName)
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.firstExisting(dirs, "config.yml", "config.yaml")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.firstExisting(dirs, ".env."+serviceName, ".env")
	}
	return resolved
}

// firstExisting returns the first dir/name that exists. Names are tried in
// order across all dirs, so a service specific name anywhere beats a generic
// one.
func (cr *Resolver) firstExisting(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			candidate := "./" + path.Join(dir, name)
			if strings.HasPrefix(dir, "..") {
				candidate = path.Join(dir, name)
			}
			if cr.FileSystem.Exists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// searchDirs lists the directories searched for a service, most specific
// first: cmd/<service>, config/<service>, config and the project root. Each
// is tried from the working directory and up to two levels above it, which
// covers running from the repo root, cmd/<service> and package tests.
func searchDirs(serviceName string) []string {
	bases := []string{
		path.Join("cmd", serviceName),
		path.Join("config", serviceName),
		"config",
		".",
	}
	dirs := make([]string, 0, len(bases)*3)
	for _, base := range bases {
		for _, up := range []string{".", "..", "../.."} {
			dirs = append(dirs, path.Join(up, base))
		}
	}
	return dirs
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for a service into cfg, a pointer to a
// struct with mapstructure tags. Values come from config.yml, then from the
// environment (after loading .env), with the environment taking precedence.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem)
}

func loadFromResolvedFiles(serviceName string, cfg any, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("failed to load config file", logger.Fields(
				logger.FieldResource, files.ConfigFile, logger.FieldError, err.Error()))
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load .env file", logger.Fields(
				logger.FieldResource, files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	// Bound variables are read lazily, so values from .env are seen too.
	for _, key := range configKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return errors.InvalidConfig(key, "cannot bind environment variable").WithCause(err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("", fmt.Sprintf("cannot unmarshal config for %s", serviceName)).WithCause(err)
	}
	return nil
}

// configKeys walks the mapstructure tags of t and returns the dotted viper
// key of every leaf field. Squashed structs contribute their keys at the
// parent level and fields tagged "-" are skipped.
func configKeys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if opts == "squash" {
			keys = append(keys, configKeys(field.Type, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(field.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// envNames returns the environment variables bound to a viper key, in
// precedence order. storage.base_path maps to IOCAPTURE_STORAGE_BASE_PATH and
// STORAGE_BASE_PATH. Top level keys such as name or debug only bind the
// prefixed form since their bare names are too generic.
func envNames(key string) []string {
	bare := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if !strings.Contains(key, ".") {
		return []string{EnvPrefix + bare}
	}
	return []string{EnvPrefix + bare, bare}
}
