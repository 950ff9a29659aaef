// Package patch hot-patches a container's filesystem and image lineage
// (replace mode) or rolls a container back to a tagged backup image
// (restore mode).
package patch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/google/uuid"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/archive"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/locale"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/metrics"
)

// AgentConfig wires an Agent. Only Connector is required.
type AgentConfig struct {
	Connector Connector
	Logger    *slog.Logger
	Printer   *locale.Printer
	Metrics   *metrics.Recorder
	// TempDir holds temporary archives; empty means os.TempDir.
	TempDir string
	// StopTimeout is the grace period in seconds given to a stopping
	// container; 0 leaves it to the daemon.
	StopTimeout int
	// Now is the clock used for commit comments; nil means time.Now.
	Now func() time.Time
}

// Agent runs one ExecutionRequest at a time against a container runtime.
// It keeps no state between runs and is safe for concurrent use.
type Agent struct {
	conn        Connector
	log         *slog.Logger
	msg         *locale.Printer
	metrics     *metrics.Recorder
	tempDir     string
	stopTimeout *int
	now         func() time.Time
}

// NewAgent returns an Agent, filling unset optional fields of cfg with defaults.
func NewAgent(cfg AgentConfig) *Agent {
	a := &Agent{
		conn:    cfg.Connector,
		log:     cfg.Logger,
		msg:     cfg.Printer,
		metrics: cfg.Metrics,
		tempDir: cfg.TempDir,
		now:     cfg.Now,
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.msg == nil {
		a.msg = locale.English()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if cfg.StopTimeout > 0 {
		t := cfg.StopTimeout
		a.stopTimeout = &t
	}
	return a
}

// Run performs the replace or restore sequence selected by req. Steps run
// strictly in order; the first failure stops the run and is returned as an
// *Error. Steps already completed are not undone.
func (a *Agent) Run(ctx context.Context, req ExecutionRequest) (err error) {
	r := &run{
		agent: a,
		req:   req,
		log:   a.log.With("run_id", uuid.NewString(), "target", req.Target, "mode", string(req.Mode())),
	}
	if req.Name != "" {
		r.log = r.log.With("name", req.Name)
	}
	start := time.Now()
	defer func() {
		if err != nil {
			r.failed(err)
			a.metrics.RunFinished(string(req.Mode()), string(StepOf(err)), KindOf(err).String(), time.Since(start))
			return
		}
		a.metrics.RunFinished(string(req.Mode()), "", "", time.Since(start))
	}()

	endpoint, err := ResolveEndpoint(req.Endpoint)
	if err != nil {
		return err
	}
	r.log = r.log.With("endpoint", endpoint)
	if err := req.Validate(); err != nil {
		return err
	}

	rt, err := a.conn.Connect(ctx, endpoint)
	if err != nil {
		if pe, ok := err.(*Error); ok {
			return pe
		}
		return newError(KindConnectivity, StepConnect, endpoint, err)
	}
	defer rt.Close()
	r.rt = rt
	r.progress(StepConnect, locale.MsgConnected, endpoint)

	c, err := resolveContainer(ctx, rt, req.Target)
	if err != nil {
		return err
	}
	r.c = c
	r.progress(StepResolve, locale.MsgFoundContainer, c.ID, strings.Join(c.Names, ", "))
	r.progress(StepInspect, locale.MsgCurrentImage, c.Image.String())

	switch req.Mode() {
	case ModeReplace:
		r.log.Info(a.msg.Sprintf(locale.MsgReplaceMode, req.BackupTag))
		err = r.replace(ctx)
	case ModeRestore:
		r.log.Info(a.msg.Sprintf(locale.MsgRestoreMode, req.RestoreTag))
		err = r.restore(ctx)
	}
	if err != nil {
		return err
	}
	r.log.Info(a.msg.Sprintf(locale.MsgCompleted))
	return nil
}

// run is the state of a single Agent.Run call. It is never shared.
type run struct {
	agent *Agent
	req   ExecutionRequest
	log   *slog.Logger
	rt    Runtime
	c     *ResolvedContainer
}

func (r *run) progress(step Step, key string, args ...any) {
	r.log.Info(r.agent.msg.Sprintf(key, args...), "step", string(step))
}

func (r *run) failed(err error) {
	attrs := []any{"kind", KindOf(err).String(), "step", string(StepOf(err))}
	if pe, ok := err.(*Error); ok {
		if pe.Subject != "" {
			attrs = append(attrs, "subject", pe.Subject)
		}
		if pe.Status != 0 {
			attrs = append(attrs, "status", pe.Status)
		}
	}
	r.log.Error(r.agent.msg.Sprintf(locale.MsgFailed, StepOf(err), err), attrs...)
}

// stop stops the container when it was running at resolution time.
func (r *run) stop(ctx context.Context) error {
	if !r.c.Running() {
		return nil
	}
	if err := r.rt.ContainerStop(ctx, r.c.ID, stopOptions(r.agent.stopTimeout)); err != nil {
		return runtimeError(StepStop, r.req.Target, err)
	}
	r.progress(StepStop, locale.MsgStopped, r.c.Name)
	return nil
}

func (r *run) start(ctx context.Context, step Step, id, key string) error {
	if err := r.rt.ContainerStart(ctx, id, types.ContainerStartOptions{}); err != nil {
		return runtimeError(step, r.req.Target, err)
	}
	r.progress(step, key, r.c.Name)
	return nil
}

func (r *run) archives() archive.Builder {
	return archive.Builder{
		Dir: r.agent.tempDir,
		Added: func(path, name string) {
			r.log.Debug(r.agent.msg.Sprintf(locale.MsgAddedToArchive, path, name), "step", string(StepBuildArchive))
		},
		Removed: func(string) {
			r.log.Debug(r.agent.msg.Sprintf(locale.MsgArchiveDeleted), "step", string(StepBuildArchive))
		},
	}
}
