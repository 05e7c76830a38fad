package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, state string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newCmd(&Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--state", state}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestCLI_EditAndShow(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, state, "set", "lol", "0", "left", "Zeus")
	require.NoError(t, err)
	_, err = run(t, state, "set", "lol", "0", "right", "Kiin")
	require.NoError(t, err)
	_, err = run(t, state, "lock", "lol", "0")
	require.NoError(t, err)

	out, err := run(t, state, "show", "lol")
	require.NoError(t, err)
	assert.Contains(t, out, "LoL 팀 섞기 (shuffled 0 times)")
	assert.Contains(t, out, "* 0 탑\tZeus  \tKiin")
	assert.Contains(t, out, "  1 정글\t블루팀\t레드팀")

	_, err = run(t, state, "lock", "lol", "0", "--unlock")
	require.NoError(t, err)
	out, err = run(t, state, "show", "lol")
	require.NoError(t, err)
	assert.Contains(t, out, "  0 탑\tZeus  \tKiin")
}

func TestCLI_ShuffleCountsAndResets(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")

	out, err := run(t, state, "shuffle", "pubg", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "(shuffled 1 times)")

	out, err = run(t, state, "shuffle", "pubg")
	require.NoError(t, err)
	assert.Contains(t, out, "(shuffled 2 times)")

	out, err = run(t, state, "reset-count", "pubg")
	require.NoError(t, err)
	assert.Contains(t, out, "(shuffled 0 times)")
}

func TestCLI_SeededShuffleIsReproducible(t *testing.T) {
	seeded := func() string {
		state := filepath.Join(t.TempDir(), "state.db")
		for i, name := range []string{"a", "b", "c", "d"} {
			_, err := run(t, state, "set", "pubg", strconv.Itoa(i), "left", name)
			require.NoError(t, err)
			_, err = run(t, state, "set", "pubg", strconv.Itoa(i), "right", name+name)
			require.NoError(t, err)
		}

		out, err := run(t, state, "shuffle", "pubg", "--seed", "42")
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, seeded(), seeded())
}

func TestCLI_Clear(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, state, "set", "pubg", "2", "left", "Solo")
	require.NoError(t, err)

	out, err := run(t, state, "clear", "pubg")
	require.NoError(t, err)
	assert.NotContains(t, out, "Solo")
}

func TestCLI_Errors(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, state, "show", "chess")
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = run(t, state, "set", "lol", "x", "left", "a")
	assert.ErrorContains(t, err, "invalid row index")

	_, err = run(t, state, "set", "lol", "0", "middle", "a")
	assert.ErrorContains(t, err, "unknown side")

	_, err = run(t, state, "--state", "", "tools")
	assert.ErrorContains(t, err, "--state cannot be empty")
}

func TestCLI_Tools(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "state.db"), "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "lol\tLoL 팀 섞기\t탑, 정글, 미드, 원딜, 서폿")
	assert.Contains(t, out, "pubg\tPUBG 팀 섞기")
}
