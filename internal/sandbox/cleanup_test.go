package sandbox

import (
	"context"
	"reflect"
	"testing"

	"github.com/firefly-engineering/grove/internal/resolve"
	"github.com/firefly-engineering/grove/internal/runtime"
)

func testResolution() *resolve.Resolution {
	return &resolve.Resolution{
		Identity: resolve.NewIdentity("/w/wt/feature-login", "feature/login"),
		Containers: []resolve.Match{
			{Name: "vsc-feature-login-aaaa", Confidence: resolve.ConfidenceLabel, Scheme: "label"},
			{Name: "vsc-feature-login-bbbb", Confidence: resolve.ConfidencePrefix, Scheme: "folder"},
		},
		Images: []resolve.Match{
			{Name: "vsc-feature-login-aaaa:latest", Confidence: resolve.ConfidencePrefix, Scheme: "folder"},
		},
	}
}

func TestTeardown_RemovesContainersThenImages(t *testing.T) {
	engine := runtime.NewMockEngine()
	engine.AddContainer("vsc-feature-login-aaaa", true, nil)
	engine.AddContainer("vsc-feature-login-bbbb", false, nil)
	engine.AddImage("vsc-feature-login-aaaa:latest", nil)

	report := Teardown(context.Background(), engine, testResolution(), TeardownOptions{StopTimeout: 10, PruneImages: true})

	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %v", report.Warnings)
	}
	if !reflect.DeepEqual(report.RemovedContainers, []string{"vsc-feature-login-aaaa", "vsc-feature-login-bbbb"}) {
		t.Errorf("removed containers = %v", report.RemovedContainers)
	}
	if !reflect.DeepEqual(report.RemovedImages, []string{"vsc-feature-login-aaaa:latest"}) {
		t.Errorf("removed images = %v", report.RemovedImages)
	}

	want := []string{"RemoveContainer", "RemoveContainer", "RemoveImage", "PruneDanglingImages"}
	if got := engine.Methods(); !reflect.DeepEqual(got, want) {
		t.Errorf("methods = %v, want %v", got, want)
	}
}

func TestTeardown_FailuresAreWarnings(t *testing.T) {
	engine := runtime.NewMockEngine()
	engine.AddContainer("vsc-feature-login-aaaa", true, nil)
	engine.AddContainer("vsc-feature-login-bbbb", true, nil)
	engine.AddImage("vsc-feature-login-aaaa:latest", nil)
	engine.Fail("RemoveContainer", "device or resource busy", "vsc-feature-login-aaaa")
	engine.Fail("PruneDanglingVolumes", "permission denied")

	report := Teardown(context.Background(), engine, testResolution(), TeardownOptions{PruneVolumes: true})

	if len(report.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", report.Warnings)
	}
	if !reflect.DeepEqual(report.RemovedContainers, []string{"vsc-feature-login-bbbb"}) {
		t.Errorf("removed containers = %v", report.RemovedContainers)
	}
	if len(report.RemovedImages) != 1 {
		t.Error("image removal should continue after a container failure")
	}
}

func TestTeardown_HighConfidenceOnly(t *testing.T) {
	engine := runtime.NewMockEngine()
	engine.AddContainer("vsc-feature-login-aaaa", true, nil)
	engine.AddContainer("vsc-feature-login-bbbb", true, nil)

	report := Teardown(context.Background(), engine, testResolution(), TeardownOptions{HighConfidenceOnly: true})

	if !reflect.DeepEqual(report.RemovedContainers, []string{"vsc-feature-login-aaaa"}) {
		t.Errorf("removed containers = %v, want only the label match", report.RemovedContainers)
	}
	if len(report.RemovedImages) != 0 {
		t.Errorf("prefix-matched image should be kept, removed %v", report.RemovedImages)
	}
}

func TestTeardown_NilResolution(t *testing.T) {
	report := Teardown(context.Background(), runtime.NewMockEngine(), nil, TeardownOptions{})
	if len(report.Warnings) != 0 || len(report.RemovedContainers) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}
