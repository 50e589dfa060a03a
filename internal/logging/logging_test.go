package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", "json", &buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "stage", "retrieve")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "retrieve", rec["stage"])

	buf.Reset()
	l, err = New("DEBUG", "text", &buf)
	require.NoError(t, err)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = New("loud", "text", &buf)
	assert.Error(t, err)
	_, err = New("info", "xml", &buf)
	assert.Error(t, err)
}
