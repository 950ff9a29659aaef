package patch

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/errdefs"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeContainer struct {
	ID      string
	Name    string
	State   string
	ImageID string
	Config  *container.Config
	Host    *container.HostConfig
}

type commitCall struct {
	ContainerID string
	Options     types.ContainerCommitOptions
}

type copyCall struct {
	ContainerID string
	Dest        string
	Entries     map[string]string
}

// fakeRuntime is an in-memory engine. images maps a reference to an image ID.
type fakeRuntime struct {
	mu         sync.Mutex
	containers map[string]*fakeContainer
	images     map[string]string
	fail       map[string]error
	calls      []string
	commits    []commitCall
	copies     []copyCall
	closed     int
	seq        int

	// onCopy runs inside CopyToContainer before the archive is read.
	onCopy func()
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: map[string]*fakeContainer{},
		images:     map[string]string{},
		fail:       map[string]error{},
	}
}

func (f *fakeRuntime) addContainer(c *fakeContainer) {
	f.containers[c.ID] = c
	if c.Config != nil && c.Config.Image != "" {
		if _, ok := f.images[c.Config.Image]; !ok {
			f.images[c.Config.Image] = c.ImageID
		}
	}
}

func (f *fakeRuntime) record(method string) error {
	f.calls = append(f.calls, method)
	return f.fail[method]
}

func (f *fakeRuntime) called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == method {
			return true
		}
	}
	return false
}

func (f *fakeRuntime) byName(name string) *fakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.containers {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *fakeRuntime) Ping(ctx context.Context) (types.Ping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return types.Ping{APIVersion: "1.43"}, f.record("Ping")
}

func (f *fakeRuntime) ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerList"); err != nil {
		return nil, err
	}
	var out []types.Container
	for _, c := range f.containers {
		if !options.All && c.State != "running" {
			continue
		}
		out = append(out, types.Container{ID: c.ID, Names: []string{"/" + c.Name}, State: c.State, Image: c.Config.Image, ImageID: c.ImageID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRuntime) ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerInspect"); err != nil {
		return types.ContainerJSON{}, err
	}
	c, ok := f.containers[containerID]
	if !ok {
		return types.ContainerJSON{}, errdefs.NotFound(fmt.Errorf("no such container: %s", containerID))
	}
	return types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{
			ID:         c.ID,
			Name:       "/" + c.Name,
			Image:      c.ImageID,
			State:      &types.ContainerState{Status: c.State, Running: c.State == "running"},
			HostConfig: c.Host,
		},
		Config: c.Config,
	}, nil
}

func (f *fakeRuntime) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerStop"); err != nil {
		return err
	}
	c, ok := f.containers[containerID]
	if !ok {
		return errdefs.NotFound(fmt.Errorf("no such container: %s", containerID))
	}
	c.State = "exited"
	return nil
}

func (f *fakeRuntime) ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerStart"); err != nil {
		return err
	}
	c, ok := f.containers[containerID]
	if !ok {
		return errdefs.NotFound(fmt.Errorf("no such container: %s", containerID))
	}
	c.State = "running"
	return nil
}

func (f *fakeRuntime) ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerRemove"); err != nil {
		return err
	}
	c, ok := f.containers[containerID]
	if !ok {
		return errdefs.NotFound(fmt.Errorf("no such container: %s", containerID))
	}
	if c.State == "running" && !options.Force {
		return errdefs.Conflict(errors.New("container is running"))
	}
	delete(f.containers, containerID)
	return nil
}

func (f *fakeRuntime) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerCreate"); err != nil {
		return container.CreateResponse{}, err
	}
	id, ok := f.images[config.Image]
	if !ok {
		return container.CreateResponse{}, errdefs.NotFound(fmt.Errorf("no such image: %s", config.Image))
	}
	for _, c := range f.containers {
		if c.Name == containerName {
			return container.CreateResponse{}, errdefs.Conflict(fmt.Errorf("name %s in use", containerName))
		}
	}
	f.seq++
	c := &fakeContainer{
		ID:      fmt.Sprintf("new%04d", f.seq),
		Name:    containerName,
		State:   "created",
		ImageID: id,
		Config:  config,
		Host:    hostConfig,
	}
	f.containers[c.ID] = c
	return container.CreateResponse{ID: c.ID}, nil
}

func (f *fakeRuntime) ContainerCommit(ctx context.Context, containerID string, options types.ContainerCommitOptions) (types.IDResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ContainerCommit"); err != nil {
		return types.IDResponse{}, err
	}
	if _, ok := f.containers[containerID]; !ok {
		return types.IDResponse{}, errdefs.NotFound(fmt.Errorf("no such container: %s", containerID))
	}
	f.seq++
	id := fmt.Sprintf("sha256:commit%04d", f.seq)
	f.images[options.Reference] = id
	f.commits = append(f.commits, commitCall{ContainerID: containerID, Options: options})
	return types.IDResponse{ID: id}, nil
}

func (f *fakeRuntime) CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options types.CopyToContainerOptions) error {
	f.mu.Lock()
	err := f.record("CopyToContainer")
	hook := f.onCopy
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return err
	}

	entries := map[string]string{}
	tr := tar.NewReader(content)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errdefs.InvalidParameter(err)
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return err
		}
		entries[hdr.Name] = string(body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, copyCall{ContainerID: containerID, Dest: dstPath, Entries: entries})
	return nil
}

func (f *fakeRuntime) ImageTag(ctx context.Context, source, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ImageTag"); err != nil {
		return err
	}
	id, ok := f.images[source]
	if !ok {
		for _, v := range f.images {
			if v == source {
				id, ok = v, true
				break
			}
		}
	}
	if !ok {
		return errdefs.NotFound(fmt.Errorf("no such image: %s", source))
	}
	f.images[target] = id
	return nil
}

func (f *fakeRuntime) ImageList(ctx context.Context, options types.ImageListOptions) ([]types.ImageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ImageList"); err != nil {
		return nil, err
	}
	var out []types.ImageSummary
	for _, ref := range options.Filters.Get("reference") {
		if id, ok := f.images[ref]; ok {
			out = append(out, types.ImageSummary{ID: id, RepoTags: []string{ref}})
		}
	}
	return out, nil
}

func (f *fakeRuntime) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

var _ Runtime = (*fakeRuntime)(nil)
