package patch

import (
	"context"
	"errors"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
)

// resolveContainer lists every container, stopped ones included, and
// inspects the first one matching target. Ambiguous targets are not
// rejected: listing order decides.
func resolveContainer(ctx context.Context, rt Runtime, target string) (*ResolvedContainer, error) {
	list, err := rt.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, runtimeError(StepResolve, target, err)
	}
	var found *types.Container
	for i := range list {
		if matchesTarget(list[i], target) {
			found = &list[i]
			break
		}
	}
	if found == nil {
		return nil, newError(KindNotFound, StepResolve, target, errors.New("no container with that name or ID prefix"))
	}

	info, err := rt.ContainerInspect(ctx, found.ID)
	if err != nil {
		return nil, runtimeError(StepInspect, target, err)
	}
	if info.ContainerJSONBase == nil || info.Config == nil {
		return nil, newError(KindRuntimeAPI, StepInspect, target, errors.New("inspect response has no configuration"))
	}

	c := &ResolvedContainer{
		ID:      found.ID,
		Names:   found.Names,
		State:   found.State,
		ImageID: info.Image,
		Image:   ParseImageReference(info.Config.Image),
		Config:  info.Config,
		Host:    info.HostConfig,
	}
	if len(found.Names) > 0 {
		c.Name = strings.TrimPrefix(found.Names[0], "/")
	} else {
		c.Name = strings.TrimPrefix(info.Name, "/")
	}
	return c, nil
}

func matchesTarget(c types.Container, target string) bool {
	for _, n := range c.Names {
		if n == "/"+target {
			return true
		}
	}
	return strings.HasPrefix(c.ID, target)
}

func stopOptions(timeout *int) container.StopOptions {
	return container.StopOptions{Timeout: timeout}
}
