package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bakery-be/internal/auth"
	"bakery-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, issue(&buf, "secret", "ops", time.Hour, time.Now()))

	claims, err := auth.Parse([]byte("secret"), strings.TrimSpace(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, utils.RoleAdmin, claims.Role)
}

func TestIssue_NoSecret(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, issue(&buf, "", "ops", time.Hour, time.Now()))
	assert.Empty(t, buf.String())
}
