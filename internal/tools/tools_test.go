package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMerge(t *testing.T) {
	local := []Tool{
		{Name: "clock", Description: "local clock"},
		{Name: "echo", Description: "local echo"},
	}
	remote := []Tool{
		{Name: "echo", Description: "remote echo"},
		{Name: "weather", Description: "remote weather"},
	}

	t.Run("remote wins on collision and unique names append", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		merged := Merge(local, remote, zap.New(core))

		require.Equal(t, []string{"clock", "echo", "weather"}, Names(merged))
		require.Equal(t, "remote echo", merged[1].Description)

		entries := logs.FilterLevelExact(zap.WarnLevel).All()
		require.Len(t, entries, 1)
		require.Equal(t, "echo", entries[0].ContextMap()["tool"])
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		_ = Merge(local, remote, nil)
		require.Equal(t, "local echo", local[1].Description)
	})

	t.Run("nil logger is fine", func(t *testing.T) {
		merged := Merge(nil, remote, nil)
		require.Equal(t, []string{"echo", "weather"}, Names(merged))
	})

	t.Run("empty remote keeps local untouched", func(t *testing.T) {
		merged := Merge(local, nil, nil)
		require.Equal(t, Names(local), Names(merged))
	})
}
