package logging

import (
	"encoding/json"
	"fmt"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// ZapConfig is zap.Config in JSON, empty means development config
	ZapConfig string
	// LogFile enables additional rotated JSON log
	LogFile    string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

func (c *Config) ZapConf() (*zap.Config, error) {
	if c.ZapConfig == "" {
		defaultConf := zap.NewDevelopmentConfig()
		return &defaultConf, nil
	}
	var zapConf zap.Config
	if err := json.Unmarshal([]byte(c.ZapConfig), &zapConf); err != nil {
		return nil, fmt.Errorf("can not parse zap config: %w", err)
	}
	return &zapConf, nil
}

func New(c *Config) (*zap.Logger, error) {
	zapConf, err := c.ZapConf()
	if err != nil {
		return nil, err
	}
	logger, err := zapConf.Build()
	if err != nil {
		return nil, fmt.Errorf("can not build logger: %w", err)
	}
	if c.LogFile == "" {
		return logger, nil
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		}),
		zapConf.Level,
	)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}
