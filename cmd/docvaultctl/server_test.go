package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncRecorder struct {
	bytes.Buffer
	synced int
}

func (s *syncRecorder) Sync() error {
	s.synced++
	return nil
}

func newRecordedLogger(out *syncRecorder) *zap.Logger {
	// A buffered core holds entries until Sync.
	ws := &zapcore.BufferedWriteSyncer{WS: out, Size: 4096}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), ws, zapcore.InfoLevel)
	return zap.New(core)
}

func TestExitCode_FlushesOnFailure(t *testing.T) {
	out := &syncRecorder{}
	log := newRecordedLogger(out)

	code := exitCode(log, errors.New("listen tcp :3000: address already in use"))

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, out.synced)
	assert.Contains(t, out.String(), "server failed")
	assert.Contains(t, out.String(), "address already in use")
}

func TestExitCode_CleanShutdown(t *testing.T) {
	out := &syncRecorder{}
	log := newRecordedLogger(out)

	assert.Equal(t, 0, exitCode(log, nil))
	assert.Equal(t, 1, out.synced)
	assert.NotContains(t, out.String(), "server failed")
}
