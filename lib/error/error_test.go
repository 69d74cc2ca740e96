package error

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := Exit
	Exit = func(c int) { code = c }
	t.Cleanup(func() { Exit = old })
	return &code
}

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, buf
}

func TestExternal(t *testing.T) {
	code := captureExit(t)
	log, buf := testLogger()

	External(log, 2, "bad flag --%s", "rate")
	assert.Equal(t, 2, *code)
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(),
		"beamdpr exited early with the following error: bad flag --rate")
}

func TestInternal(t *testing.T) {
	code := captureExit(t)
	log, buf := testLogger()

	Internal(log, "index %d out of range", 7)
	assert.Equal(t, 1, *code)
	assert.Contains(t, buf.String(), "internal error: index 7 out of range")
	assert.Contains(t, buf.String(), "stack=")
}
