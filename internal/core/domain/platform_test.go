package domain_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fab/internal/core/domain"
)

func TestPlatformKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  domain.PlatformKey
		want string
	}{
		{name: "linux amd64", key: domain.PlatformKey{OS: "linux", Arch: "amd64"}, want: "linux-amd64"},
		{name: "darwin arm64", key: domain.PlatformKey{OS: "darwin", Arch: "arm64"}, want: "darwin-arm64"},
		{name: "windows amd64", key: domain.PlatformKey{OS: "windows", Arch: "amd64"}, want: "windows-amd64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestHostPlatform(t *testing.T) {
	key := domain.HostPlatform()
	assert.Equal(t, runtime.GOOS, key.OS)
	assert.Equal(t, runtime.GOARCH, key.Arch)
}

func TestNativeDep_SourceDir(t *testing.T) {
	tests := []struct {
		name string
		dep  domain.NativeDep
		want string
	}{
		{
			name: "autotools variant",
			dep: domain.NativeDep{
				WorkDir:   "/out/ffi",
				Platform:  domain.PlatformKey{OS: "linux", Arch: "amd64"},
				Autotools: &domain.AutotoolsSpec{SourceRoot: "libffi-3.4.6"},
			},
			want: "/out/ffi/libffi-3.4.6",
		},
		{
			name: "static variant on windows",
			dep: domain.NativeDep{
				WorkDir:  "/out/ffi",
				Platform: domain.PlatformKey{OS: "windows", Arch: "amd64"},
				Static:   &domain.StaticSpec{SourceRoot: "libffi-3.4.6"},
				Autotools: &domain.AutotoolsSpec{
					SourceRoot: "should-not-win",
				},
			},
			want: "/out/ffi/libffi-3.4.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dep.SourceDir())
		})
	}
}
