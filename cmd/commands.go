package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samuelfneumann/rlconf/config"
	"github.com/samuelfneumann/rlconf/environment/gym"
	"github.com/samuelfneumann/rlconf/experiment"
	"github.com/spf13/cobra"
)

// ErrInvalid is returned by the validate command for invalid documents
var ErrInvalid = errors.New("invalid training document")

// violations returns the errors joined in err
func violations(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func printViolations(w io.Writer, err error) {
	for _, v := range violations(err) {
		fmt.Fprintln(w, v)
	}
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a training document, reporting every violation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadFile(args[0])
			if err != nil {
				printViolations(cmd.ErrOrStderr(), err)
				a.log.WithField("file", args[0]).WithField("violations",
					len(violations(err))).Debug("validate: document rejected")
				return ErrInvalid
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%v: ok (%v on %v)\n", args[0],
				c.Model.Type(), c.Env.Name())
			return nil
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a training document with all defaults filled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadFile(args[0])
			if err != nil {
				printViolations(cmd.ErrOrStderr(), err)
				return ErrInvalid
			}

			data, err := config.Marshal(c, config.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(config.YAML),
		fmt.Sprintf("Output format (%v)", strings.Join(config.Formats(), " or ")))

	return cmd
}

func (a *app) bindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bind <file>",
		Short: "Bind a training document to its environment and print the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadFile(args[0])
			if err != nil {
				printViolations(cmd.ErrOrStderr(), err)
				return ErrInvalid
			}

			plan, err := experiment.Bind(c, gym.NewRegistry(), a.log)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan)
			return nil
		},
	}
}

func (a *app) envsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List the environments training documents can name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := gym.NewRegistry()
			for _, name := range r.Names() {
				d, err := r.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16v %v observations, "+
					"%v actions, %v steps, solved at %v\n", name,
					d.Observation.Dims(), d.NumActions, d.MaxEpisodeSteps,
					d.RewardThreshold)
			}
			return nil
		},
	}
}
