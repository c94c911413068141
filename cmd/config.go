package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "spruce"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	noCacheFlagName       = "no-cache"
	excludeFlagName       = "exclude"
	verboseFlagName       = "verbose"
	targetFlagName        = "target"
	enableFlagName        = "enable"
	disableFlagName       = "disable"
	tagFlagName           = "tag"
	skipTagFlagName       = "skip-tag"
	draftsFlagName        = "drafts"
	cleanParallelFlagName = "parallel"
	verifyFlagName        = "verify"
	verifyTimeoutFlagName = "verify-timeout"

	excludeConfigKey       = "paths.exclude"
	cleanParallelConfigKey = "clean.parallel"
	verifyConfigKey        = "clean.verify"
	verifyTimeoutConfigKey = "clean.verify_timeout"
	targetConfigKey        = "rules.target_version"
	includeConfigKey       = "rules.include"
	excludeRulesConfigKey  = "rules.exclude"
	includeTagsConfigKey   = "rules.include_tags"
	excludeTagsConfigKey   = "rules.exclude_tags"
	draftsConfigKey        = "rules.include_drafts"
	stepsConfigKey         = "format.steps"
	lineEndingConfigKey    = "format.line_ending"
	cacheSizeConfigKey     = "format.cache_size"

	defaultReportsDir    = ".spruce-reports"
	defaultNoCache       = false
	defaultCleanParallel = 1
	defaultVerifyTimeout = 5 * time.Minute

	envPrefix = "SPRUCE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".spruce.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// defaultSteps is the pipeline of a fresh configuration.
var defaultSteps = []string{domain.StepRefactor, adapter.StepGoimports}

var globalLogger *slog.Logger

func init() {
	// A .env file may hold SPRUCE_* overrides; it is optional.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	for key, value := range configDefaults() {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("Cannot read config file", "path", viper.ConfigFileUsed(), "error", err)
		}
	}
}

// configDefaults is what init writes and what applies without a config file.
func configDefaults() map[string]any {
	return map[string]any{
		configVersionKey: currentConfigVersion,
		outputFlagName:   defaultReportsDir,
		noCacheFlagName:  defaultNoCache,
		excludeConfigKey: []string{},

		cleanParallelConfigKey: defaultCleanParallel,
		verifyConfigKey:        string(adapter.VerifyNone),
		verifyTimeoutConfigKey: int64(defaultVerifyTimeout.Seconds()),

		targetConfigKey:       "",
		includeConfigKey:      []string{},
		excludeRulesConfigKey: []string{},
		includeTagsConfigKey:  []string{},
		excludeTagsConfigKey:  []string{},
		draftsConfigKey:       false,

		stepsConfigKey:      defaultSteps,
		lineEndingConfigKey: string(m.LineEndingAuto),
		cacheSizeConfigKey:  domain.DefaultStepCacheSize,

		logFilenameKey:   defaultLogFilename,
		logLevelKey:      defaultLogLevel,
		logVerboseKey:    defaultLogVerbose,
		logMaxSizeKey:    defaultLogMaxSize,
		logMaxBackupsKey: defaultLogMaxBackups,
		logMaxAgeKey:     defaultLogMaxAge,
		logCompressKey:   defaultLogCompress,
	}
}

// selectionConfig reads the rule selection from flags, env and config.
func selectionConfig(targetVersion string) domain.SelectionConfig {
	return domain.SelectionConfig{
		TargetVersion: targetVersion,
		Include:       viper.GetStringSlice(includeConfigKey),
		Exclude:       viper.GetStringSlice(excludeRulesConfigKey),
		IncludeTags:   viper.GetStringSlice(includeTagsConfigKey),
		ExcludeTags:   viper.GetStringSlice(excludeTagsConfigKey),
		IncludeDrafts: viper.GetBool(draftsConfigKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
