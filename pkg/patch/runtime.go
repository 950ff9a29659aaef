package patch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Runtime is the subset of the Docker Engine client a run needs.
// *client.Client satisfies it.
type Runtime interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerCommit(ctx context.Context, containerID string, options types.ContainerCommitOptions) (types.IDResponse, error)
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options types.CopyToContainerOptions) error
	ImageTag(ctx context.Context, source, target string) error
	ImageList(ctx context.Context, options types.ImageListOptions) ([]types.ImageSummary, error)
	Close() error
}

var _ Runtime = (*client.Client)(nil)

// Connector opens a Runtime for a validated endpoint.
type Connector interface {
	Connect(ctx context.Context, endpoint string) (Runtime, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context, endpoint string) (Runtime, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context, endpoint string) (Runtime, error) {
	return f(ctx, endpoint)
}

// DockerConnector connects to a Docker Engine and checks it answers.
type DockerConnector struct{}

// Connect dials endpoint, honouring the DOCKER_* TLS environment, and pings it.
func (DockerConnector) Connect(ctx context.Context, endpoint string) (Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithHost(endpoint), client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, err
	}
	return cli, nil
}

// ResolveEndpoint returns the endpoint to dial, defaulting to the local
// engine. It fails with KindConfiguration when the address cannot be parsed.
func ResolveEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		endpoint = client.DefaultDockerHost
	}
	u, err := client.ParseHostURL(endpoint)
	if err != nil {
		return "", newError(KindConfiguration, StepEndpoint, endpoint, err)
	}
	switch u.Scheme {
	case "tcp", "unix", "npipe", "http", "https":
	default:
		return "", newError(KindConfiguration, StepEndpoint, endpoint, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" && u.Path == "" {
		return "", newError(KindConfiguration, StepEndpoint, endpoint, errors.New("endpoint has no address"))
	}
	return endpoint, nil
}

// ResolvedContainer is the runtime's view of the target, read once per run.
type ResolvedContainer struct {
	ID      string
	Name    string
	Names   []string
	State   string
	ImageID string
	Image   ImageReference
	Config  *container.Config
	Host    *container.HostConfig
}

// Running reports whether the container was running when resolved.
func (c *ResolvedContainer) Running() bool {
	return c.State == "running"
}
