package patch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/archive"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/locale"
)

// CommitAuthor is written as the author of committed patch layers.
const CommitAuthor = "cpatch"

// replace backs up the current image under the backup tag, injects the
// inputs and commits the result under the tag the container ran before.
//
// A failure after the backup tag is applied leaves the tag in place and
// the container stopped.
func (r *run) replace(ctx context.Context) error {
	c := r.c
	if err := r.stop(ctx); err != nil {
		return err
	}

	backup := c.Image.WithTag(r.req.BackupTag)
	source := c.ImageID
	if source == "" {
		source = c.Image.String()
	}
	if err := r.rt.ImageTag(ctx, source, backup); err != nil {
		return runtimeError(StepBackupTag, backup, err)
	}
	r.progress(StepBackupTag, locale.MsgBackupCreated, backup)

	files, missing, err := archive.Expand(r.req.Inputs)
	if err != nil {
		return newError(KindIO, StepExpandInputs, strings.Join(r.req.Inputs, ","), err)
	}
	for _, m := range missing {
		r.log.Warn(r.agent.msg.Sprintf(locale.MsgPathNotFound, m), "step", string(StepExpandInputs), "path", m)
	}
	if len(files) == 0 {
		return newError(KindNoInputFiles, StepExpandInputs, strings.Join(r.req.Inputs, ","), errors.New("no input files found"))
	}
	r.progress(StepExpandInputs, locale.MsgInputsExpanded, len(files))

	dest := r.req.Destination
	err = r.archives().With(files, func(tar io.Reader) error {
		return r.rt.CopyToContainer(ctx, c.ID, dest, tar, types.CopyToContainerOptions{AllowOverwriteDirWithFile: true})
	})
	if err != nil {
		var be *archive.BuildError
		if errors.As(err, &be) {
			return newError(KindIO, StepBuildArchive, be.Path, be.Err)
		}
		return runtimeError(StepInject, dest, err)
	}
	r.progress(StepInject, locale.MsgFilesCopied, len(files), dest)

	current := c.Image.String()
	_, err = r.rt.ContainerCommit(ctx, c.ID, types.ContainerCommitOptions{
		Reference: current,
		Comment:   fmt.Sprintf("Modified by %s at %s", CommitAuthor, r.agent.now().Format(time.RFC3339)),
		Author:    CommitAuthor,
	})
	if err != nil {
		return runtimeError(StepCommit, current, err)
	}
	r.progress(StepCommit, locale.MsgCommitted, current)

	if c.Running() {
		return r.start(ctx, StepRestart, c.ID, locale.MsgRestarted)
	}
	return nil
}
