package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/darkclainer/dictui/pkg/controller"
	"github.com/darkclainer/dictui/pkg/logging"
	"github.com/darkclainer/dictui/pkg/querier"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

type NotificationConfig struct {
	Delay time.Duration
}

type Config struct {
	Host string
	// SearchWait is how long search form submission waits for lookup before redirecting back
	SearchWait time.Duration

	Logging      logging.Config
	Remote       querier.Config
	Cached       querier.CachedConfig
	Controller   controller.Config
	Notification NotificationConfig
}

func getConfig() (*Config, error) {
	pflag.StringP("config", "c", "config.yaml", "path to local config")
	pflag.String("host", "localhost:8080", "address to listen on")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}
	viper.SetEnvPrefix("DICTUI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("searchwait", "5s")
	viper.SetDefault("notification.delay", "3s")
	viper.SetDefault("controller.defaultterm", controller.DefaultTerm)
	viper.SetDefault("controller.policy", string(controller.PolicyLastResolved))
	viper.SetDefault("remote.baseurl", querier.DefaultBaseURL)
	for _, key := range []string{
		"logging.zapconfig",
		"logging.logfile",
		"remote.timeout",
		"remote.ratelimit",
		"remote.burst",
		"remote.maxworkers",
		"cached.path",
		"cached.inmemory",
		"cached.ttl",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	configPath := viper.GetString("config")
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err == nil {
		fmt.Printf("Using config file: %s\n", configPath)
	}

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	return &conf, nil
}

func main() {
	conf, err := getConfig()
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	logger, err := logging.New(&conf.Logging)
	if err != nil {
		exitf(codeErrorArgs, "Failure while instantiating logger: %s\n", err)
	}
	defer logger.Sync() // nolint:errcheck // nothing to do with it

	logger.Info("Starting server")
	server, err := New(logger, conf)
	if err != nil {
		exitf(codeInternalError, "Can not initialize server: %s\n", err)
	}
	server.Start()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		if err := server.Close(context.Background()); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
			return
		}
	}()

	logger.Info("Listening started", zap.String("address", fmt.Sprintf("http://%s", conf.Host)))
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
		}
	}
	logger.Info("Closed")
}
