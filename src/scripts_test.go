package mt63

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pflag (not unreasonably) assumes it only ever gets called once. But lots of
// test infrastructure was built around "call this command then this command".
// Running it in Go tests (for coverage analysis and convenience etc.) means
// doing some slight bodges.
func setupPflag(args []string) {
	os.Args = args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
}

func Test_Modem1000Short(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "test1000.wav")

	setupPflag([]string{"mt63gen", "-B", "1000", "-m", "RYRYRY MT63 SCRIPT TEST 1000\n", "-o", file})
	GenMain()

	setupPflag([]string{"mt63atest", "-B", "1000", "-L20", "-e", "MT63 SCRIPT TEST 1000", file})
	AtestMain()
}

func Test_Modem2000Long8Bit(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "test2000.wav")

	setupPflag([]string{"mt63gen", "-B", "2000", "-l", "-8", "--tx-level=-3", "-m", "RYRYRY long interleave, lower case\n", "-o", file})
	GenMain()

	setupPflag([]string{"mt63atest", "-B", "2000", "-l", "-e", "long interleave, lower case", file})
	AtestMain()
}

// Settings from a config file, text from a file, received text logged.
func Test_ModemConfigAndLog(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "test500.wav")
	var logDir = filepath.Join(tmpdir, "logs")

	var config = filepath.Join(tmpdir, "mt63.yaml")
	require.NoError(t, os.WriteFile(config, []byte("bandwidth: 500\nintegration: 16\n"), 0o600))

	var text = filepath.Join(tmpdir, "msg.txt")
	require.NoError(t, os.WriteFile(text, []byte("RYRYRY FROM A FILE AT 500\n"), 0o600))

	setupPflag([]string{"mt63gen", "-c", config, "-o", file, text})
	GenMain()

	setupPflag([]string{"mt63atest", "-c", config, "-T", "%H:%M:%S", "-d", logDir, "-e", "FROM A FILE AT 500", file})
	AtestMain()

	var logs, err = filepath.Glob(filepath.Join(logDir, "*.txt"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	var data, readErr = os.ReadFile(logs[0])
	require.NoError(t, readErr)
	assert.Contains(t, string(data), textLogHeader)
}
