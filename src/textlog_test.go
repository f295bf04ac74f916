package mt63

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TextLog_Daily(t *testing.T) {
	var dir = filepath.Join(t.TempDir(), "logs")
	var l = NewTextLog(true, dir)

	var day1 = time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	var day2 = day1.Add(2 * time.Minute)

	require.NoError(t, l.Write(day1, 20, 1.5, "hello"))
	require.NoError(t, l.Write(day1, 21, 1.5, "again, with a comma"))
	require.NoError(t, l.Write(day2, 19, -0.5, "next day"))
	require.NoError(t, l.Close())

	var first, err = os.ReadFile(filepath.Join(dir, "2024-03-09.txt"))
	require.NoError(t, err)

	var lines = strings.Split(strings.TrimSpace(string(first)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, textLogHeader, lines[0])
	assert.Equal(t, "1710028740,2024-03-09T23:59:00Z,20.0,1.5,hello", lines[1])
	assert.Equal(t, `1710028740,2024-03-09T23:59:00Z,21.0,1.5,"again, with a comma"`, lines[2])

	var second, err2 = os.ReadFile(filepath.Join(dir, "2024-03-10.txt"))
	require.NoError(t, err2)
	assert.Contains(t, string(second), "next day")
}

func Test_TextLog_SingleFileAppends(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "rx.csv")
	var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var l = NewTextLog(false, path)
	require.NoError(t, l.Write(now, 10, 0, "one"))
	require.NoError(t, l.Close())

	l = NewTextLog(false, path)
	require.NoError(t, l.Write(now, 10, 0, "two"))
	require.NoError(t, l.Close())

	var data, err = os.ReadFile(path)
	require.NoError(t, err)

	// Header only once.
	assert.Equal(t, 1, strings.Count(string(data), textLogHeader))
	assert.Contains(t, string(data), "one")
	assert.Contains(t, string(data), "two")
}

func Test_TextLog_Disabled(t *testing.T) {
	var l = NewTextLog(true, "")

	assert.NoError(t, l.Write(time.Now(), 10, 0, "nothing"))
	assert.NoError(t, l.Close())
}
