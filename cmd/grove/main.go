package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/redis.v5"
)

type rootCmdConfig struct {
	configFile string
	verbose    bool
	logLevel   string
	redis      redisConfig
	v          *viper.Viper
	logger     zerolog.Logger
	ctx        context.Context
}

type redisConfig struct {
	addr     string
	password string
	db       int
	prefix   string
	rootID   string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New(), logger: zerolog.Nop()}
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to score and classify samples",
		Long:  `A tool to score labelled samples under a logistic link and to classify samples with binary decision trees`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.load(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YML config file (default $HOME/.grove.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log debug information")
	rootCmd.PersistentFlags().StringVar(&(config.logLevel), "log-level", "", "level of the logs written to stderr (overrides verbose)")
	rootCmd.PersistentFlags().StringVar(&(config.redis.addr), "redis-addr", "", "address of the redis server storing trees")
	rootCmd.PersistentFlags().StringVar(&(config.redis.password), "redis-password", "", "password for the redis server storing trees")
	rootCmd.PersistentFlags().IntVar(&(config.redis.db), "redis-db", 0, "redis database storing trees")
	rootCmd.PersistentFlags().StringVar(&(config.redis.prefix), "redis-prefix", "grove", "prefix for the keys of tree nodes on redis")
	rootCmd.PersistentFlags().StringVar(&(config.redis.rootID), "root", "", "ID of the root node of the tree on redis")
	rootCmd.AddCommand(versionCmd(), likelihoodCmd(config), classifyCmd(config), treeCmd(config))
	return rootCmd
}

// load reads the configuration file and environment on top of the flags
// of the executed command and sets up logging accordingly.
func (rcc *rootCmdConfig) load(cmd *cobra.Command) error {
	v := rcc.v
	v.SetEnvPrefix("GROVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("binding flags: %v", err)
	}
	path, explicit := rcc.configFile, rcc.configFile != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".grove.yaml")
		}
	}
	if _, statErr := os.Stat(path); path != "" && (explicit || statErr == nil) {
		v.SetConfigFile(path)
		err = v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("reading config %s: %v", path, err)
		}
	}
	rcc.verbose = v.GetBool("verbose")
	rcc.logLevel = v.GetString("log-level")
	rcc.redis = redisConfig{
		addr:     v.GetString("redis-addr"),
		password: v.GetString("redis-password"),
		db:       v.GetInt("redis-db"),
		prefix:   v.GetString("redis-prefix"),
		rootID:   v.GetString("root"),
	}
	rcc.logger, err = newLogger(cmd.ErrOrStderr(), rcc.logLevel, rcc.verbose)
	return err
}

func (rcc *rootCmdConfig) redisClient() (*redis.Client, error) {
	if rcc.redis.addr == "" {
		return nil, fmt.Errorf("required redis-addr flag was not set")
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     rcc.redis.addr,
		Password: rcc.redis.password,
		DB:       rcc.redis.db,
	})
	err := rc.Ping().Err()
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %v", rcc.redis.addr, err)
	}
	return rc, nil
}

func (rcc *rootCmdConfig) Context() context.Context {
	if rcc.ctx == nil {
		rcc.ctx = context.Background()
	}
	return rcc.ctx
}

func exit(cmd *cobra.Command, code int, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	os.Exit(code)
}
