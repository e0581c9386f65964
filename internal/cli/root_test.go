package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "brewlab", cmd.Use)
	assert.Contains(t, cmd.Long, "seed")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"generate"}, {"brew"}, {"solve"}, {"estimate"}, {"daily"}, {"serve"}, {"test"},
		{"session", "save"}, {"session", "show"}, {"session", "list"}, {"session", "delete"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestGameFlagsRegistered(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"generate", "brew", "solve", "estimate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		for _, flag := range []string{"seed", "config", "daily", "date", "salt", "max-combo", "min-ingredients", "max-ingredients"} {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s --%s", name, flag)
		}
	}
}

func TestSessionDBFlag(t *testing.T) {
	cmd := NewRootCommand()
	sessionCmd, _, err := cmd.Find([]string{"session"})
	require.NoError(t, err)

	dbFlag := sessionCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "brewlab.db", dbFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "daily"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExecute_ExitCodes(t *testing.T) {
	var out, errOut bytes.Buffer

	code := Execute([]string{"daily", "--date", "2026-10-18", "--salt", "pepper"}, &out, &errOut)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "2026-10-18")

	out.Reset()
	errOut.Reset()
	code = Execute([]string{"daily", "--date", "18/10/2026"}, &out, &errOut)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "invalid --date")
}
