package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "tilde only", path: "~", want: home},
		{name: "tilde slash", path: "~/.memos-mcp/config.yaml", want: filepath.Join(home, ".memos-mcp", "config.yaml")},
		{name: "absolute", path: "/etc/memos.yaml", want: "/etc/memos.yaml"},
		{name: "relative", path: "config.yaml", want: "config.yaml"},
		// "~user" 形式は展開しない
		{name: "other user", path: "~alice/config.yaml", want: "~alice/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandTilde(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".memos-mcp", "config.yaml"), path)
}
