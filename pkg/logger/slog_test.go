package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		assertions func(*assert.Assertions, []byte)
	}{
		{
			name:    "debug records dropped by default",
			verbose: false,
			assertions: func(a *assert.Assertions, out []byte) {
				a.NotContains(string(out), "debug line")
				a.Contains(string(out), "info line")
			},
		},
		{
			name:    "debug records kept when verbose",
			verbose: true,
			assertions: func(a *assert.Assertions, out []byte) {
				a.Contains(string(out), "debug line")
				a.Contains(string(out), "info line")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(&buf, tt.verbose)
			l.Debug("debug line")
			l.Info("info line")
			tt.assertions(assert.New(t), buf.Bytes())
		})
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Error("failure", Error(errors.New("boom")))
	record := make(map[string]interface{})
	require.Nil(t, json.Unmarshal(buf.Bytes(), &record))
	a := assert.New(t)
	a.Equal("failure", record["msg"])
	a.Equal("boom", record[keyError])
	a.Contains(record, "source")
}
