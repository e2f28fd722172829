package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	custom := logrus.NewEntry(logrus.New())

	ctxWithLogger := WithLogger(ctx, custom)
	got := GetLogger(ctxWithLogger)
	assert.Equal(t, custom.Logger, got.Logger)
}

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	got := GetLogger(context.Background())
	assert.Equal(t, L.Logger, got.Logger)
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	require.NoError(t, SetLogLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("verbose"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger()
	logger.SetOutput(&buf)
	setLoggerFormat(logger, "json")

	logger.WithField("skill", "pdf").Warn("size exceeded")

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "size exceeded", record["message"])
	assert.Equal(t, "warning", record["logLevel"])
	assert.Equal(t, "pdf", record["skill"])
}
