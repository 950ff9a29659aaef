package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/config"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/locale"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/logging"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/metrics"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/patch"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/profile"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/startup"
)

// env is everything a command needs from outside the process.
type env struct {
	stdout    io.Writer
	stderr    io.Writer
	connector patch.Connector
	msg       *locale.Printer
}

// flags holds the parsed command line.
type flags struct {
	input        string
	output       string
	target       string
	host         string
	replaceTag   string
	restoreTag   string
	name         string
	saveProfile  string
	loadProfiles string
	listProfiles bool
	language     string
	configPath   string
	logLevel     string
	logFormat    string
	profilesDir  string
}

func (f *flags) options() startup.Options {
	return startup.Options{
		Request: patch.ExecutionRequest{
			Name:        f.name,
			Inputs:      patch.ParseInputs(f.input),
			Destination: f.output,
			Target:      f.target,
			Endpoint:    f.host,
			BackupTag:   f.replaceTag,
			RestoreTag:  f.restoreTag,
		},
		ListProfiles: f.listProfiles,
		SaveProfile:  f.saveProfile,
		LoadProfiles: patch.ParseInputs(f.loadProfiles),
	}
}

func newRootCmd(e *env) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "cpatch",
		Short: "Hot-patch a running container or restore it from a backup image",
		Example: `  cpatch -i ./file.txt,./conf -o /app/data -t my-container -H tcp://my-host:2375 --replace-tag backup-20250426
  cpatch -t my-container -H tcp://my-host:2375 --restore-tag backup-20250426`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd.Context(), e, f)
		},
	}

	fs := cmd.Flags()
	usage := e.msg.FlagUsage
	fs.StringVarP(&f.input, "input", "i", "", usage("input"))
	fs.StringVarP(&f.output, "output", "o", "", usage("output"))
	fs.StringVarP(&f.target, "target", "t", "", usage("target"))
	fs.StringVarP(&f.host, "host", "H", "", usage("host"))
	fs.StringVar(&f.replaceTag, "replace-tag", "", usage("replace-tag"))
	fs.StringVar(&f.restoreTag, "restore-tag", "", usage("restore-tag"))
	fs.StringVar(&f.name, "name", "", usage("name"))
	fs.StringVar(&f.saveProfile, "save-profile", "", usage("save-profile"))
	fs.StringVar(&f.loadProfiles, "load-profiles", "", usage("load-profiles"))
	fs.BoolVar(&f.listProfiles, "list-profiles", false, usage("list-profiles"))
	fs.StringVar(&f.language, "language", "", usage("language"))
	fs.StringVar(&f.configPath, "config", "", usage("config"))
	fs.StringVar(&f.logLevel, "log-level", "", usage("log-level"))
	fs.StringVar(&f.logFormat, "log-format", "", usage("log-format"))
	fs.StringVar(&f.profilesDir, "profiles-dir", "", usage("profiles-dir"))
	return cmd
}

func runRoot(ctx context.Context, e *env, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
		return &exitError{code: exitInvalid}
	}
	if f.language == "" && cfg.Language != "" {
		// Help text was built from argv and env only; the config file may name another language.
		msg, err := locale.New(cfg.Language)
		if err != nil {
			fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
			return &exitError{code: exitInvalid}
		}
		e.msg = msg
	}
	overrideConfig(&cfg, f)
	logger, err := logging.New(e.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
		return &exitError{code: exitInvalid}
	}

	opts := f.options()
	d := startup.Classify(opts)
	logger.Debug("startup command selected", "command", d.Command.String())

	switch d.Command {
	case startup.Invalid:
		fmt.Fprintln(e.stderr, e.msg.Sprintf(locale.MsgInvalidInput, d.Err))
		return &exitError{code: exitInvalid}
	case startup.ListProfiles:
		store, err := profile.Open(cfg.ProfilesDir)
		if err != nil {
			return fail(e, err)
		}
		return listProfiles(e, store)
	case startup.SaveProfile:
		store, err := profile.Open(cfg.ProfilesDir)
		if err != nil {
			return fail(e, err)
		}
		if err := store.Save(opts.SaveProfile, profile.FromRequest(opts.Request)); err != nil {
			return fail(e, err)
		}
		fmt.Fprintln(e.stdout, e.msg.Sprintf(locale.MsgProfileSaved, opts.SaveProfile))
		return nil
	case startup.LoadProfiles:
		store, err := profile.Open(cfg.ProfilesDir)
		if err != nil {
			return fail(e, err)
		}
		reqs, skipped := loadProfiles(e, store, opts.LoadProfiles)
		if err := execute(ctx, e, cfg, logger, reqs); err != nil || skipped > 0 {
			return &exitError{code: exitFailed}
		}
		return nil
	default:
		if err := execute(ctx, e, cfg, logger, []patch.ExecutionRequest{opts.Request}); err != nil {
			return &exitError{code: exitFailed}
		}
		return nil
	}
}

// overrideConfig applies flags that shadow config settings.
func overrideConfig(cfg *config.Config, f *flags) {
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.profilesDir != "" {
		cfg.ProfilesDir = f.profilesDir
	}
}

func fail(e *env, err error) error {
	fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
	return &exitError{code: exitFailed}
}

func listProfiles(e *env, store *profile.Store) error {
	names, err := store.List()
	if err != nil {
		return fail(e, err)
	}
	if len(names) == 0 {
		fmt.Fprintln(e.stdout, e.msg.Sprintf(locale.MsgNoProfiles))
		return nil
	}
	fmt.Fprintln(e.stdout, e.msg.Sprintf(locale.MsgProfilesHeader))
	for _, n := range names {
		fmt.Fprintln(e.stdout, n)
	}
	return nil
}

// loadProfiles resolves every name, reporting and skipping the ones that
// cannot be loaded.
func loadProfiles(e *env, store *profile.Store, names []string) (reqs []patch.ExecutionRequest, skipped int) {
	for _, name := range names {
		p, err := store.Load(name)
		if err != nil {
			fmt.Fprintln(e.stderr, e.msg.Sprintf(locale.MsgProfileSkipped, name, err))
			skipped++
			continue
		}
		fmt.Fprintln(e.stdout, e.msg.Sprintf(locale.MsgExecutingProfile, name))
		req := p.Request()
		if req.Name == "" {
			req.Name = name
		}
		reqs = append(reqs, req)
	}
	return reqs, skipped
}

// execute runs reqs as one batch. It returns a non-nil error when any
// request failed; each failure has already been logged by its run.
func execute(ctx context.Context, e *env, cfg config.Config, logger *slog.Logger, reqs []patch.ExecutionRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	for i := range reqs {
		if reqs[i].Endpoint == "" {
			reqs[i].Endpoint = cfg.Endpoint
		}
	}
	rec := metrics.New()
	agent := patch.NewAgent(patch.AgentConfig{
		Connector:   e.connector,
		Logger:      logger,
		Printer:     e.msg,
		Metrics:     rec,
		TempDir:     cfg.TempDir,
		StopTimeout: cfg.StopTimeoutSeconds,
	})
	results := patch.NewExecutor(agent).Run(ctx, reqs...)
	failed := patch.Failed(results)
	if len(results) > 1 {
		logger.Info(e.msg.Sprintf(locale.MsgBatchSummary, len(results)-failed, len(results)))
	}
	if err := rec.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn("write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}
