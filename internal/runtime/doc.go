// Package runtime drives the container engine CLI.
//
// Docker and podman accept the same command subset, so a single
// DockerEngine serves both. Detect picks the binary; EngineAuto tries docker
// first.
//
// # Engine Interface
//
// The Engine interface covers what grove needs from an engine:
//   - IsEngineRunning, ContainerExists, IsContainerRunning: state queries
//   - ListContainers, ListImages and their label-filtered variants
//   - BuildImage, RunContainer, Exec, ExecInteractive
//   - StopContainer, RemoveContainer, RemoveImage, and the prune calls
//
// Queries never fail: an unreachable engine reads as "not running".
// Removal of an object that is already gone is reported as success; use
// IsAlreadyGone to tell the two apart.
//
// # Mock Engine
//
// NewMockEngine returns an in-memory engine that tracks containers and
// images and records every call for verification.
package runtime
