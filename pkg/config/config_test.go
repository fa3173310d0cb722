// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tram-stm/go-tram/pkg/errors"
	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	config := Default()
	assert.Equal(t, 100, config.Engine.MaxRetries)
	assert.Equal(t, 100*time.Nanosecond, config.Engine.Backoff.Initial)
	assert.Equal(t, time.Duration(0), config.Engine.Backoff.Max)
	assert.False(t, config.Engine.Strict)
	assert.NoError(t, config.Validate())
}

func TestParse(t *testing.T) {
	config, err := Parse([]byte(`
engine:
  maxRetries: 10
  strict: true
  backoff:
    max: 1ms
logging:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 10, config.Engine.MaxRetries)
	assert.True(t, config.Engine.Strict)
	assert.Equal(t, DefaultInitialBackoff, config.Engine.Backoff.Initial)
	assert.Equal(t, time.Millisecond, config.Engine.Backoff.Max)
	assert.Equal(t, "debug", config.Logging.Level)

	bytes, err := config.Marshal()
	require.NoError(t, err)
	parsed, err := Parse(bytes)
	require.NoError(t, err)
	assert.Equal(t, config, parsed)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("engine: ["))
	assert.True(t, errors.IsInvalid(err))

	_, err = Parse([]byte(`
engine:
  maxRetries: -1
  backoff:
    initial: 1ms
    max: 1us
logging:
  level: loud
`))
	assert.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  maxRetries: 3\n"), 0644))
	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Engine.MaxRetries)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
