package main

import (
	"tarkovapi/auth"
	"tarkovapi/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuedTokenPassesIngestAuthorization(t *testing.T) {
	cfg := &config.Config{JWTSecret: "rotated-secret"}
	signed, err := issueAdminToken(cfg, "deploy-bot", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(signed, []byte(cfg.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "deploy-bot", claims.Subject)
	assert.True(t, claims.HasPermission(auth.PermissionAdmin))

	_, err = auth.ParseToken(signed, []byte(config.DefaultJWTSecret))
	assert.Error(t, err)

	_, err = issueAdminToken(cfg, "deploy-bot", 0)
	assert.Error(t, err)
}
