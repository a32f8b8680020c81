package runtime

import (
	"context"
	"testing"
)

func TestMockEngine_Lifecycle(t *testing.T) {
	m := NewMockEngine()
	ctx := context.Background()

	if _, err := m.RunContainer(ctx, RunOptions{Name: "c", Image: "i"}); err != nil {
		t.Fatalf("RunContainer error: %v", err)
	}
	if !m.IsContainerRunning(ctx, "c") {
		t.Fatal("container should be running after RunContainer")
	}

	m.StopContainer(ctx, "c", 10)
	if m.IsContainerRunning(ctx, "c") || !m.ContainerExists(ctx, "c") {
		t.Error("stopped container should exist but not run")
	}

	res, _ := m.RemoveContainer(ctx, "c", false)
	if !res.Success || m.ContainerExists(ctx, "c") {
		t.Error("RemoveContainer should delete the container")
	}

	res, _ = m.RemoveContainer(ctx, "c", false)
	if !IsAlreadyGone(res) {
		t.Error("second removal should report already gone")
	}

	if !m.Called("StopContainer", "c") {
		t.Error("StopContainer call should be recorded")
	}
}

func TestMockEngine_FailAndDown(t *testing.T) {
	m := NewMockEngine()
	ctx := context.Background()
	m.AddImage("img:latest", map[string]string{"k": "v"})

	m.Fail("RemoveImage", "in use", "img:latest")
	res, _ := m.RemoveImage(ctx, "img:latest", false)
	if res.Success {
		t.Error("RemoveImage should fail when configured")
	}
	res, _ = m.RemoveImage(ctx, "img:latest", true)
	if !res.Success {
		t.Error("forced RemoveImage should succeed")
	}

	m.Down = true
	if m.IsEngineRunning(ctx) {
		t.Error("IsEngineRunning should be false when down")
	}
	if _, err := m.ListImagesByLabel(ctx, "k", "v"); err == nil {
		t.Error("listing should fail when down")
	}
}
