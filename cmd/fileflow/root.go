package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/fileflow/bootstrap"
	"github.com/kbukum/fileflow/config"
	"github.com/kbukum/fileflow/dag"
	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/flow"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/observability"
	"github.com/kbukum/fileflow/probe"
	"github.com/kbukum/fileflow/process"
)

// flowCandidates are tried in order when --file is not given.
var flowCandidates = []string{"fileflow.yaml", "fileflow.yml", "Fileflow.yaml", "Fileflow.yml"}

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	flowFile   string
	configFile string
	envFile    string
	verbose    bool
}

func (o *globalOptions) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.flowFile, "file", "f", "", "flow file (default: fileflow.yaml in the working directory)")
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "configuration file")
	cmd.PersistentFlags().StringVar(&o.envFile, "env-file", "", ".env file to load")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
}

func newRootCmd() *cobra.Command {
	o := &globalOptions{}
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Run file-oriented task graphs, rebuilding only what is out of date",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	o.addFlags(root)

	root.AddCommand(
		newCmdRun(o),
		newCmdPlan(o),
		newCmdGraph(o),
		newCmdTargets(o),
		newCmdSuggest(o),
		newCmdVersion(),
	)
	return root
}

// session is what a command needs once configuration is loaded.
type session struct {
	cfg    *CLIConfig
	log    *logger.Logger
	flow   *flow.Flow
	prober probe.Prober
	opts   []dag.Option
	out    *cobra.Command
}

func (s *session) engine(extra ...dag.Option) *dag.Engine {
	opts := append(append([]dag.Option(nil), s.opts...), extra...)
	return dag.NewEngine(s.prober, opts...)
}

// loadConfig reads the CLI configuration.
func (o *globalOptions) loadConfig() (*CLIConfig, error) {
	var cfg CLIConfig
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return &cfg, nil
}

// resolveFlowFile returns the flow file to load.
func (o *globalOptions) resolveFlowFile() (string, error) {
	if o.flowFile != "" {
		return o.flowFile, nil
	}
	for _, cand := range flowCandidates {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return cand, nil
		}
	}
	return "", apperrors.NotFound("flow file", fmt.Sprintf("none of %v", flowCandidates))
}

// execute loads configuration and the flow, then runs fn inside the
// application lifecycle.
func (o *globalOptions) execute(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithShutdownTimeout(cfg.ShutdownTimeout))
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	app.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version)
		if err != nil {
			return err
		}
		app.OnStop(bootstrap.Hook(shutdown))
		if cfg.Observability.Enabled {
			metrics, err = observability.NewMetrics(observability.Meter(serviceName))
			if err != nil {
				return err
			}
		}
		return nil
	})

	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		path, err := o.resolveFlowFile()
		if err != nil {
			return err
		}

		var probeOpts []probe.Option
		if metrics != nil {
			probeOpts = append(probeOpts, probe.WithMetrics(metrics))
		}
		prober, err := probe.New(ctx, cfg.Probe, cfg.Storage, app.Logger, probeOpts...)
		if err != nil {
			return err
		}

		loader := flow.NewLoader(
			flow.WithRunner(process.NewRunner(cfg.Process)),
			flow.WithLogger(app.Logger),
			flow.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		)
		f, err := loader.Load(path)
		if err != nil {
			return err
		}

		s := &session{
			cfg:    cfg,
			log:    app.Logger,
			flow:   f,
			prober: prober,
			out:    cmd,
			opts:   []dag.Option{dag.WithLogger(app.Logger)},
		}
		if metrics != nil {
			s.opts = append(s.opts, dag.WithMetrics(metrics))
		}
		return fn(ctx, s)
	})
}

// errorText renders err for the terminal, leading with the code of the
// first AppError in its chain. Context added by wrapping is kept in front
// of the message.
func errorText(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "error: " + err.Error()
	}
	prefix := strings.TrimSuffix(err.Error(), appErr.Error())
	text := fmt.Sprintf("error [%s]: %s%s", appErr.Code, prefix, appErr.Message)
	if appErr.Cause != nil {
		text += "\n  cause: " + appErr.Cause.Error()
	}
	return text
}
