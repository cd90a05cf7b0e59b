package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/yap/internal/config"
)

var flagParseErrorTests = []struct {
	in     string
	flag   string
	reason string
}{
	{
		"unknown flag: --nope",
		"--nope",
		"Flag %s is missing.",
	},
	{
		"flag needs an argument: --provider",
		"--provider",
		"Flag %s needs an argument.",
	},
	{
		"flag needs an argument: 'm' in -m",
		"-m",
		"Flag %s needs an argument.",
	},
	{
		`invalid argument "nope" for "-h, --help" flag: strconv.ParseBool: parsing "nope": invalid syntax`,
		"-h, --help",
		"Flag %s have an invalid argument.",
	},
}

func TestFlagParseError(t *testing.T) {
	for _, tf := range flagParseErrorTests {
		t.Run(tf.in, func(t *testing.T) {
			err := newFlagParseError(errors.New(tf.in))
			require.Equal(t, tf.flag, err.Flag())
			require.Equal(t, tf.reason, err.ReasonFormat())
			require.Equal(t, tf.in, err.Error())
		})
	}
}

func TestRootFlags(t *testing.T) {
	t.Run("provider flag is registered with its default", func(t *testing.T) {
		cmd := NewRootCmd(BuildInfo{}, config.Config{}, nil)

		err := cmd.ParseFlags([]string{"--provider", "gemini"})
		require.NoError(t, err)

		flag := cmd.Flag("provider")
		require.NotNil(t, flag)
		require.Equal(t, "gemini", flag.Value.String())
		require.Equal(t, "ollama", flag.DefValue)
	})

	t.Run("model shorthand parses", func(t *testing.T) {
		cmd := NewRootCmd(BuildInfo{}, config.Config{}, nil)

		err := cmd.ParseFlags([]string{"-m", "llama3.2:3b"})
		require.NoError(t, err)
		require.Equal(t, "llama3.2:3b", cmd.Flag("model").Value.String())
	})

	t.Run("log-level flag parses", func(t *testing.T) {
		cmd := NewRootCmd(BuildInfo{}, config.Config{}, nil)

		err := cmd.ParseFlags([]string{"--log-level", "debug"})
		require.NoError(t, err)
		require.Equal(t, "debug", cmd.Flag("log-level").Value.String())
	})
}

func TestDumpConfig(t *testing.T) {
	t.Run("redacts the api key", func(t *testing.T) {
		dump := dumpConfig(config.Config{GeminiAPIKey: "super-secret"})
		require.Equal(t, "(redacted)", dump.GeminiAPIKey)
		require.NotContains(t, dump.GeminiAPIKey, "super-secret")
	})

	t.Run("leaves a missing key empty", func(t *testing.T) {
		dump := dumpConfig(config.Config{})
		require.Empty(t, dump.GeminiAPIKey)
	})
}
