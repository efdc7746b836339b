package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/platform/sqlkv"
	"github.com/phrazzld/taskpad/internal/service"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "taskpad",
		Short: "A small task list you can keep in a browser tab or a terminal",
		Long: `taskpad keeps a single list of tasks. Tasks can be added, completed,
deleted and cleared either through the web page started by "taskpad serve"
or directly with the commands below. Every change is saved immediately.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is ./taskpad.yaml or $HOME/.taskpad/taskpad.yaml)")

	rootCmd.AddCommand(
		serveCmd(opts),
		addCmd(opts),
		toggleCmd(opts),
		doneCmd(opts),
		rmCmd(opts),
		clearCompletedCmd(opts),
		clearAllCmd(opts),
		listCmd(opts),
		summaryCmd(opts),
		migrateCmd(opts),
	)
	return rootCmd
}

// runFunc is a command body that receives an initialized application.
type runFunc func(cmd *cobra.Command, app *application, args []string) error

// withApp builds the application for one command invocation, runs fn and
// reports any persistence warnings recorded along the way on stderr.
func withApp(opts *rootOptions, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd.Context(), opts.configPath, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer app.cleanup()

		runErr := fn(cmd, app, args)
		for _, w := range app.tasks.Warnings() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", w.Message())
		}
		return runErr
	}
}

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list page and JSON API",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			return app.listenAndServe(cmd.Context())
		}),
	}
}

func addCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, args []string) error {
			task, outcome, err := app.tasks.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return &messageError{message: outcome.Message, err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s  (%s)\n", outcome.Message, task.Text, task.ShortID())
			return nil
		}),
	}
}

func toggleCmd(opts *rootOptions) *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "toggle <ref>",
		Short: "Flip a task between active and completed",
		Long: `Flip a task between active and completed.

A task reference is the number shown by "taskpad list", a full task ID or an
unambiguous ID prefix. With --active the task is marked active regardless of
its current state.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, args []string) error {
			task, err := resolveTask(app, args[0])
			if err != nil {
				return err
			}
			completed := !task.Completed
			if active {
				completed = false
			}
			return printOutcome(cmd.OutOrStdout(), app.tasks.Toggle(cmd.Context(), task.ID, completed))
		}),
	}
	cmd.Flags().BoolVar(&active, "active", false, "mark the task active instead of flipping it")
	return cmd
}

func doneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, args []string) error {
			task, err := resolveTask(app, args[0])
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), app.tasks.Toggle(cmd.Context(), task.ID, true))
		}),
	}
}

func rmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, args []string) error {
			task, err := resolveTask(app, args[0])
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), app.tasks.Delete(cmd.Context(), task.ID))
		}),
	}
}

func clearCompletedCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			if app.tasks.Summary().Completed > 0 && !yes {
				if err := confirm(cmd, "Remove all completed tasks?"); err != nil {
					return err
				}
			}
			return printOutcome(cmd.OutOrStdout(), app.tasks.ClearCompleted(cmd.Context()))
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func clearAllCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every task",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			if app.tasks.Summary().Total > 0 && !yes {
				if err := confirm(cmd, "Remove all tasks? This cannot be undone."); err != nil {
					return err
				}
			}
			return printOutcome(cmd.OutOrStdout(), app.tasks.ClearAll(cmd.Context()))
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func listCmd(opts *rootOptions) *cobra.Command {
	var (
		filter string
		output string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			view := newListView(app.tasks, domain.ParseFilter(filter))
			return writeList(cmd.OutOrStdout(), format, view)
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(domain.FilterAll), "which tasks to show: all, active or completed")
	cmd.Flags().StringVarP(&output, "output", "o", string(formatText), "output format: text, json or yaml")
	return cmd
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show how many tasks exist and how many are completed",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.tasks.Summary().String())
			return nil
		}),
	}
}

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending storage migrations",
		Long: `Apply pending migrations to the configured SQL database and print the
resulting schema version. Migrations also run whenever storage is opened, so
this is mostly useful to prepare a database ahead of a deployment.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *application, _ []string) error {
			kv, ok := app.kv.(*sqlkv.Store)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "The %s driver has no schema to migrate.\n", app.config.Storage.Driver)
				return nil
			}

			version, err := kv.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (%s)\n", version, kv.Driver())
			return nil
		}),
	}
}

// resolveTask looks up the task a command line reference points at.
func resolveTask(app *application, ref string) (domain.Task, error) {
	id, err := app.tasks.Resolve(ref)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := app.tasks.Get(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %q", service.ErrTaskRefNotFound, ref)
	}
	return task, nil
}

// printOutcome writes the outcome message. A no-op is not an error.
func printOutcome(w io.Writer, outcome service.Outcome) error {
	_, err := fmt.Fprintln(w, outcome.Message)
	return err
}

// confirm asks a yes/no question on the command's streams and returns
// errCanceled unless the answer is yes. End of input counts as no.
func confirm(cmd *cobra.Command, question string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return errCanceled
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errCanceled
	}
}
