package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestDownloadRequest_Valid(t *testing.T) {
	tests := []struct {
		name string
		req  DownloadRequest
		want bool
	}{
		{"complete", DownloadRequest{"skyrimse", 1, 2, "mod.zip"}, true},
		{"missing domain", DownloadRequest{"", 1, 2, "mod.zip"}, false},
		{"missing mod id", DownloadRequest{"skyrimse", 0, 2, "mod.zip"}, false},
		{"missing file id", DownloadRequest{"skyrimse", 1, 0, "mod.zip"}, false},
		{"missing filename", DownloadRequest{"skyrimse", 1, 2, ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownloadRequest_String(t *testing.T) {
	req := DownloadRequest{GameDomain: "fallout4", ModID: 10, FileID: 20, Filename: "x.7z"}
	if got := req.String(); got != "fallout4/10/20" {
		t.Errorf("String() = %q, want %q", got, "fallout4/10/20")
	}
}

func TestStage_String(t *testing.T) {
	if StageResolve.String() != "resolve" {
		t.Errorf("StageResolve.String() = %q", StageResolve.String())
	}
	if StageDownload.String() != "download" {
		t.Errorf("StageDownload.String() = %q", StageDownload.String())
	}
}

func TestErrorKinds_Wrap(t *testing.T) {
	err := fmt.Errorf("%w: status 404", ErrAPI)
	if !errors.Is(err, ErrAPI) {
		t.Error("wrapped error should match ErrAPI")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should not match ErrNetwork")
	}
}
