package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/agent"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/config"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "pmi", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline storage")
	cmd.Flags().String("audit-impl", "logfile", "implementation of audit trail collector")
	cmd.Flags().String("audit-log-file", "audit.log", "audit trail destination for the logfile collector")
	cmd.Flags().String("anomaly-script", "", "path to a javascript anomaly scoring expression")
	cmd.Flags().Int("partitions", 16, "number of event dispatcher partitions")
	cmd.Flags().Int("partition-capacity", 256, "event queue capacity per partition")
	cmd.Flags().Duration("sweep-interval", 30*time.Second, "deadline sweep interval")
	cmd.Flags().Duration("response-timeout", 15*time.Minute, "customer response timeout per contact attempt")
	cmd.Flags().Duration("feedback-window", 72*time.Hour, "feedback collection window after service")
	cmd.Flags().String("log-level", "info", "log level")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.Config = config.Default()
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.AuditCollectorType = config.AuditCollectorType(viper.GetString("audit-impl"))
	c.cfg.AuditLogFile = viper.GetString("audit-log-file")
	c.cfg.AnomalyScriptFile = viper.GetString("anomaly-script")
	c.cfg.PartitionCount = viper.GetInt("partitions")
	c.cfg.PartitionCapacity = viper.GetInt("partition-capacity")
	c.cfg.SweepInterval = viper.GetDuration("sweep-interval")
	c.cfg.Engagement.ResponseTimeout = viper.GetDuration("response-timeout")
	c.cfg.Feedback.Window = viper.GetDuration("feedback-window")
	c.cfg.LogLevel = viper.GetString("log-level")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	logger.Init(c.cfg.LogLevel)
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "pmi",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
