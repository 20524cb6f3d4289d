package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, args ...string) (*Options, error) {
	t.Helper()
	return Load(flag.NewFlagSet("otpkeeper", flag.ContinueOnError), args)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	opts, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "", opts.StorePath)
	assert.False(t, opts.ExeDir)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.True(t, opts.AutoSave)
	assert.False(t, opts.Version)
}

func TestLoad_Flags(t *testing.T) {
	opts, err := load(t, "-s", "/tmp/store.json", "-exe-dir", "-l", "debug", "-autosave=false", "-user", "bob", "-version")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/store.json", opts.StorePath)
	assert.True(t, opts.ExeDir)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.False(t, opts.AutoSave)
	assert.Equal(t, "bob", opts.User)
	assert.True(t, opts.Version)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `{"store_path":"/from/file","log_level":"info","autosave":false,"user":"file-user"}`)
	t.Setenv("OTPKEEPER_LOG_LEVEL", "error")
	t.Setenv("OTPKEEPER_USER", "env-user")

	opts, err := load(t, "-c", path, "-user", "flag-user")
	require.NoError(t, err)

	assert.Equal(t, "/from/file", opts.StorePath, "file beats default")
	assert.False(t, opts.AutoSave, "file beats default")
	assert.Equal(t, "error", opts.LogLevel, "env beats file")
	assert.Equal(t, "flag-user", opts.User, "flag beats env")
	assert.Equal(t, path, opts.Config)
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeConfig(t, `{"exe_dir":true}`)
	t.Setenv("OTPKEEPER_CONFIG", path)

	opts, err := load(t)
	require.NoError(t, err)
	assert.True(t, opts.ExeDir)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad config file", func(t *testing.T) {
		path := writeConfig(t, `{"autosave":"maybe"}`)
		_, err := load(t, "-config", path)
		assert.ErrorIs(t, err, ErrConfigFile)
	})

	t.Run("missing config file is ignored", func(t *testing.T) {
		_, err := load(t, "-config", filepath.Join(t.TempDir(), "absent.json"))
		assert.NoError(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("OTPKEEPER_AUTOSAVE", "maybe")
		_, err := load(t)
		assert.ErrorIs(t, err, ErrEnv)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Load(flag.NewFlagSet("otpkeeper", flag.ContinueOnError), []string{"-nope"})
		assert.Error(t, err)
	})
}

func TestResolveStorePath(t *testing.T) {
	explicit := &Options{StorePath: "/srv/otp.json", ExeDir: true}
	got, err := explicit.ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, "/srv/otp.json", got)

	t.Setenv("XDG_CONFIG_HOME", "/home/alice/.config")
	t.Setenv("HOME", "/home/alice")
	got, err = (&Options{}).ResolveStorePath()
	require.NoError(t, err)
	if dir, err := os.UserConfigDir(); err == nil {
		assert.Equal(t, filepath.Join(dir, "otpkeeper", StoreFileName), got)
	}

	got, err = (&Options{ExeDir: true}).ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, StoreFileName, filepath.Base(got))
}

func TestUsername(t *testing.T) {
	got, err := (&Options{User: "carol"}).Username()
	require.NoError(t, err)
	assert.Equal(t, "carol", got)

	// the platform user may be unavailable in minimal containers
	if got, err := (&Options{}).Username(); err == nil {
		assert.NotEmpty(t, got)
	} else {
		assert.ErrorIs(t, err, ErrNoUser)
	}
}
