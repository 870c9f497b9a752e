// Package cmd implements the rlconf command line tool
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samuelfneumann/rlconf/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app holds the state shared by the subcommands of a single invocation
type app struct {
	v      *viper.Viper
	log    *logrus.Logger
	closer io.Closer
}

// RootCommand returns the rlconf command with all subcommands added
func RootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "rlconf",
		Short: "Load, check and bind C51 and DQN gym training documents",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.addFlags(cmd)

	cmd.AddCommand(
		a.validateCommand(),
		a.showCommand(),
		a.bindCommand(),
		a.envsCommand(),
	)

	return cmd
}

// logFlags maps viper keys to the persistent flags that set them
var logFlags = map[string]string{
	"log.level":  "log-level",
	"log.format": "log-format",
	"log.output": "log-output",
}

// bindFlags binds each viper key in keys to its flag in flags
func bindFlags(v *viper.Viper, flags *pflag.FlagSet,
	keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bindFlags: %v: %v", name, err)
		}
	}
	return nil
}

func (a *app) addFlags(cmd *cobra.Command) {
	def := logger.DefaultConfig()
	flags := cmd.PersistentFlags()
	flags.String("log-level", def.Level, "Log level (debug, info, warn, error)")
	flags.String("log-format", def.Format, "Log format (text or json)")
	flags.String("log-output", def.Output, "Log output (stdout, stderr or a file path)")

	if err := bindFlags(a.v, flags, logFlags); err != nil {
		panic(fmt.Sprintf("addFlags: %v", err))
	}

	a.v.SetEnvPrefix("RLCONF")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
}

// setup creates the logger from the flags and environment
func (a *app) setup() error {
	log, closer, err := logger.New(logger.Config{
		Level:  a.v.GetString("log.level"),
		Format: a.v.GetString("log.format"),
		Output: a.v.GetString("log.output"),
	})
	if err != nil {
		return fmt.Errorf("setup: %v", err)
	}

	a.log, a.closer = log, closer
	a.log.WithField("level", a.log.GetLevel()).Debug("setup: logger ready")
	return nil
}
