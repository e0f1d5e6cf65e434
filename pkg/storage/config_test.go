package storage_test

import (
	"strings"
	"testing"

	"github.com/storytime-labs/storytime/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Driver != storage.DriverFilesystem {
		t.Errorf("driver: got %s, want %s", cfg.Driver, storage.DriverFilesystem)
	}
	if cfg.ContainerName != "storybooks" {
		t.Errorf("container_name: got %s, want storybooks", cfg.ContainerName)
	}
	if cfg.RootPath != "data/storage" {
		t.Errorf("root_path: got %s, want data/storage", cfg.RootPath)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("max_list_size: got %d, want 50", cfg.MaxListSize)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DRIVER", storage.DriverAzure)
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_MAX_LIST", "200")

	env := &storage.Env{
		Driver:           "TEST_DRIVER",
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		MaxListSize:      "TEST_MAX_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Driver != storage.DriverAzure {
		t.Errorf("driver: got %s, want azure", cfg.Driver)
	}
	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
	if cfg.MaxListSize != 200 {
		t.Errorf("max_list_size: got %d, want 200", cfg.MaxListSize)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure missing connection_string",
			cfg:     storage.Config{Driver: storage.DriverAzure},
			wantErr: "connection_string required",
		},
		{
			name:    "unknown driver",
			cfg:     storage.Config{Driver: "s3"},
			wantErr: "unknown storage driver",
		},
		{
			name: "filesystem defaults valid",
			cfg:  storage.Config{Driver: storage.DriverFilesystem},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFinalizeCapsMaxListSize(t *testing.T) {
	cfg := storage.Config{MaxListSize: storage.MaxListCap + 1}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size: got %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Driver:           storage.DriverFilesystem,
		ContainerName:    "storybooks",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "storybooks" {
		t.Errorf("container_name should remain storybooks, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}
