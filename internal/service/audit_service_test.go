package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditServiceLogsAuthEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newTrackingRepo(), testNow)
	user := seedUser(t, env, "a@b.com", "pw123456", false)

	core, logs := observer.New(zapcore.InfoLevel)
	NewAuditService(env.dispatcher, zap.New(core)).RegisterHandlers()

	_, err := env.svc.Login(ctx, "a@b.com", "pw123456")
	require.NoError(t, err)
	_, err = env.svc.Login(ctx, "a@b.com", "wrong-password")
	require.Error(t, err)
	require.NoError(t, env.svc.ChangePassword(ctx, user.ID, "pw123456", "new-password"))

	entries := logs.FilterMessage("auth event").All()
	require.Len(t, entries, 3)

	types := make([]string, 0, len(entries))
	for _, entry := range entries {
		fields := entry.ContextMap()
		types = append(types, fields["event_type"].(string))
		for _, v := range fields {
			assert.NotEqual(t, "pw123456", v)
			assert.NotEqual(t, "wrong-password", v)
			assert.NotEqual(t, "new-password", v)
		}
	}
	assert.Equal(t, []string{"login_succeeded", "login_rejected", "password_changed"}, types)

	rejected := entries[1]
	assert.Equal(t, zapcore.WarnLevel, rejected.Level)
	assert.Equal(t, "a@b.com", rejected.ContextMap()["identifier"])
	assert.Equal(t, user.ID, entries[0].ContextMap()["subject_id"])
}

func TestAuditServiceWithoutDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditService(nil, zap.NewNop()).RegisterHandlers()
	})
}
