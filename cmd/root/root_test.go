package root

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	tests := []struct {
		name         string
		args         func(path string) []string
		requirements func(*testing.T, string)
		assertions   func(*assert.Assertions, error)
	}{
		{
			name: "help",
			args: func(string) []string {
				return []string{}
			},
			assertions: func(a *assert.Assertions, err error) {
				a.Nil(err)
			},
		},
		{
			name: "run rejects invalid env override before launching",
			args: func(path string) []string {
				return []string{"run", "--config", path}
			},
			requirements: func(t *testing.T, path string) {
				t.Setenv("SC_SEARCH_TIMEOUT", "0s")
			},
			assertions: func(a *assert.Assertions, err error) {
				a.NotNil(err)
				a.Contains(err.Error(), "SEARCH_TIMEOUT")
			},
		},
		{
			name: "run rejects invalid config file before launching",
			args: func(path string) []string {
				return []string{"run", "--config", path, "--verbose"}
			},
			requirements: func(t *testing.T, path string) {
				err := os.WriteFile(path, []byte("SEARCH:\n  URL: not-a-url\n"), 0644)
				require.Nil(t, err)
			},
			assertions: func(a *assert.Assertions, err error) {
				a.NotNil(err)
				a.Contains(err.Error(), "SEARCH_URL")
			},
		},
		{
			name: "unknown command",
			args: func(string) []string {
				return []string{"sync"}
			},
			assertions: func(a *assert.Assertions, err error) {
				a.NotNil(err)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/config.yaml", t.TempDir())
			if tt.requirements != nil {
				tt.requirements(t, path)
			}
			command := NewCommand(context.Background())
			command.SetArgs(tt.args(path))
			tt.assertions(assert.New(t), command.Execute())
		})
	}
}
