package patch

import (
	"context"
	"errors"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/locale"
)

// restore recreates the container from the restore-tagged image under the
// same name. The old container is removed before the new one is created,
// so a failed create leaves no container with that name.
func (r *run) restore(ctx context.Context) error {
	c := r.c
	if err := r.stop(ctx); err != nil {
		return err
	}

	ref := c.Image.WithTag(r.req.RestoreTag)
	images, err := r.rt.ImageList(ctx, types.ImageListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return runtimeError(StepFindBackup, ref, err)
	}
	if len(images) == 0 {
		return newError(KindNotFound, StepFindBackup, ref, errors.New("backup image not found"))
	}
	r.progress(StepFindBackup, locale.MsgBackupFound, ref)

	if err := r.rt.ContainerRemove(ctx, c.ID, types.ContainerRemoveOptions{Force: true}); err != nil {
		return runtimeError(StepRemove, r.req.Target, err)
	}
	r.progress(StepRemove, locale.MsgRemoved, c.Name)

	cfg, hostCfg := restoredConfig(c, ref)
	resp, err := r.rt.ContainerCreate(ctx, cfg, hostCfg, nil, nil, c.Name)
	if err != nil {
		return runtimeError(StepCreate, c.Name, err)
	}
	r.progress(StepCreate, locale.MsgCreated, resp.ID, ref)

	if c.Running() {
		return r.start(ctx, StepStartRestored, resp.ID, locale.MsgStartedRestored)
	}
	return nil
}

// restoredConfig carries the launch configuration of c over to image.
// Only the fields listed here survive a restore; resource limits, health
// checks and the rest are dropped.
func restoredConfig(c *ResolvedContainer, image string) (*container.Config, *container.HostConfig) {
	old := c.Config
	cfg := &container.Config{
		Image:        image,
		Hostname:     old.Hostname,
		ExposedPorts: old.ExposedPorts,
		Env:          old.Env,
		Cmd:          old.Cmd,
		Entrypoint:   old.Entrypoint,
		WorkingDir:   old.WorkingDir,
		Labels:       old.Labels,
	}
	hostCfg := &container.HostConfig{}
	if h := c.Host; h != nil {
		hostCfg.Binds = h.Binds
		hostCfg.PortBindings = h.PortBindings
		hostCfg.RestartPolicy = h.RestartPolicy
		hostCfg.VolumeDriver = h.VolumeDriver
		hostCfg.VolumesFrom = h.VolumesFrom
		hostCfg.NetworkMode = h.NetworkMode
	}
	return cfg, hostCfg
}
