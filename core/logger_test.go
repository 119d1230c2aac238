package core

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedModule struct{}

func (namedModule) String() string {
	return "ContentStore-0"
}

func TestGenerateLogMessage(t *testing.T) {
	message := generateLogMessage(namedModule{}, "capacity=", 16, " limit=", int64(-1),
		" admit=", true, " gen=", uint32(3), " ", errors.New("boom"), " ", 1.5)
	assert.Equal(t, "[ContentStore-0] capacity=16 limit=-1 admit=true gen=3 boom 1.5", message)
}

func TestLoggerLevels(t *testing.T) {
	t.Cleanup(func() { InitializeLoggerTo(os.Stdout, "INFO") })
	var buffer bytes.Buffer

	InitializeLoggerTo(&buffer, "WARN")
	LogInfo("Main", "hidden")
	LogWarn("Main", "shown")
	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "[Main] shown")

	buffer.Reset()
	InitializeLoggerTo(&buffer, "DEBUG")
	LogDebug("Main", "debug")
	LogTrace("Main", "trace")
	assert.Contains(t, buffer.String(), "debug")
	assert.NotContains(t, buffer.String(), "trace")

	buffer.Reset()
	InitializeLoggerTo(&buffer, "TRACE")
	LogTrace("Main", "trace")
	assert.Contains(t, buffer.String(), "[Main] trace")

	buffer.Reset()
	InitializeLoggerTo(&buffer, "bogus")
	LogDebug("Main", "debug")
	LogInfo("Main", "info")
	assert.NotContains(t, buffer.String(), "debug")
	assert.Contains(t, buffer.String(), "info")
}
