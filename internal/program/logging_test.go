package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestInstructionLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixture(t, sqliteLedger, WithLogger(zap.New(core)))

	_, err := f.p.Initialize(f.ctx, auth)
	require.NoError(t, err)
	_, err = f.p.Initialize(f.ctx, auth)
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)

	committed := logs.FilterMessage("instruction committed").All()
	require.Len(t, committed, 1)
	fields := committed[0].ContextMap()
	assert.Equal(t, "initialize", fields["instruction"])
	assert.Equal(t, auth, fields["authority"])

	rejected := logs.FilterMessage("instruction rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.InfoLevel, rejected[0].Level)
	assert.Contains(t, rejected[0].ContextMap()["error"], "already initialized")
}
