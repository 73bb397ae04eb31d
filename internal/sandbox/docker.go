package sandbox

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"

	"github.com/bountylynx/bountylynx/pkg/models"
)

const workspaceDir = "/workspace"

// Fixed tool install sequence run once after the container starts. Individual
// command failures are logged and skipped; the environment stays usable with
// whatever did install.
var setupCommands = []string{
	"apt-get update -y",
	"apt-get install -y python3 python3-pip curl wget nmap sqlmap gobuster",
	"pip3 install requests beautifulsoup4 colorama",
	"mkdir -p /workspace/results /workspace/tools",
}

// DockerEnvironment runs generated test scripts inside a throwaway
// container. One container per environment; no pooling.
type DockerEnvironment struct {
	cfg         models.SandboxConfig
	name        string
	logger      *logrus.Logger
	mu          sync.Mutex
	cli         *client.Client
	containerID string
}

func NewDockerEnvironment(cfg models.SandboxConfig, sessionID string, logger *logrus.Logger) *DockerEnvironment {
	if logger == nil {
		logger = logrus.New()
	}
	prefix := cfg.NamePrefix
	if prefix == "" {
		prefix = "bountylynx-testing"
	}
	return &DockerEnvironment{
		cfg:    cfg,
		name:   fmt.Sprintf("%s-%s-%d", prefix, sessionID, time.Now().Unix()),
		logger: logger,
	}
}

// Initialize obtains a runtime handle, pulls the base image, starts one
// container and runs the tool setup sequence. Any failure before the setup
// stage leaves the environment unusable.
func (d *DockerEnvironment) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client unavailable: %w", err)
	}
	d.cli = cli

	d.logger.Infof("Pulling security testing image %s", d.cfg.Image)
	rc, err := cli.ImagePull(ctx, d.cfg.Image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", d.cfg.Image, err)
	}
	_, _ = io.Copy(io.Discard, rc)
	rc.Close()

	created, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image:      d.cfg.Image,
			Tty:        true,
			WorkingDir: workspaceDir,
			Env:        []string{"DEBIAN_FRONTEND=noninteractive"},
		},
		&container.HostConfig{
			Binds: []string{fmt.Sprintf("%s:/tmp/host:rw", os.TempDir())},
		},
		nil, nil, d.name)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	d.containerID = created.ID

	if err := cli.ContainerStart(ctx, d.containerID, types.ContainerStartOptions{}); err != nil {
		d.containerID = ""
		return fmt.Errorf("start container: %w", err)
	}

	for _, cmd := range setupCommands {
		if _, err := d.execLocked(ctx, cmd); err != nil {
			d.logger.Warnf("Setup command failed: %s - %v", cmd, err)
		}
	}

	return nil
}

// Execute stages the script into the container workspace and runs it,
// returning exit code and combined output.
func (d *DockerEnvironment) Execute(ctx context.Context, script, name string) (*ExecResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.containerID == "" {
		return nil, fmt.Errorf("container not initialized")
	}

	archive, err := tarSingleFile(name+".py", []byte(script))
	if err != nil {
		return nil, fmt.Errorf("archive script: %w", err)
	}
	if err := d.cli.CopyToContainer(ctx, d.containerID, workspaceDir, archive, types.CopyToContainerOptions{}); err != nil {
		return nil, fmt.Errorf("copy script to container: %w", err)
	}

	res, err := d.execLocked(ctx, fmt.Sprintf("python3 %s/%s.py", workspaceDir, name))
	if err != nil {
		return nil, err
	}
	res.TestName = name
	return res, nil
}

// Cleanup stops and removes the container. Errors are suppressed; the
// container is gone or unrecoverable either way.
func (d *DockerEnvironment) Cleanup(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cli == nil || d.containerID == "" {
		return nil
	}

	if err := d.cli.ContainerStop(ctx, d.containerID, container.StopOptions{}); err != nil {
		d.logger.Debugf("Container stop failed: %v", err)
	}
	if err := d.cli.ContainerRemove(ctx, d.containerID, types.ContainerRemoveOptions{Force: true}); err != nil {
		d.logger.Debugf("Container remove failed: %v", err)
	}
	d.containerID = ""
	return nil
}

func (d *DockerEnvironment) execLocked(ctx context.Context, cmd string) (*ExecResult, error) {
	execID, err := d.cli.ContainerExecCreate(ctx, d.containerID, types.ExecConfig{
		Cmd:          []string{"sh", "-c", cmd},
		WorkingDir:   workspaceDir,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("exec create: %w", err)
	}

	attach, err := d.cli.ContainerExecAttach(ctx, execID.ID, types.ExecStartCheck{})
	if err != nil {
		return nil, fmt.Errorf("exec attach: %w", err)
	}
	defer attach.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, attach.Reader); err != nil {
		return nil, fmt.Errorf("exec read: %w", err)
	}

	inspect, err := d.cli.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return nil, fmt.Errorf("exec inspect: %w", err)
	}

	return &ExecResult{ExitCode: inspect.ExitCode, Output: buf.String()}, nil
}

func tarSingleFile(name string, data []byte) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o755,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := tw.Write(data); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
