package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("writes prefix level and message", func(t *testing.T) {
		var out bytes.Buffer
		l, err := New("GAME", "", &out)
		require.NoError(t, err)

		l.Info("gates changed")
		l.Warning("exit missing")
		l.Error("boom")

		lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
		require.Len(t, lines, 3)
		assert.Contains(t, string(lines[0]), "[GAME]")
		assert.Contains(t, string(lines[0]), "[INFO]")
		assert.Contains(t, string(lines[0]), "gates changed")
		assert.Contains(t, string(lines[1]), "[WARN]")
		assert.Contains(t, string(lines[2]), "[ERROR]")
		assert.Contains(t, string(lines[2]), "boom")
	})

	t.Run("requires prefix and output", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.Error(t, err)

		_, err = New("APP", "", nil)
		assert.Error(t, err)
	})
}
