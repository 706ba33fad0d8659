package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionrepo "github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
)

func TestRun_BadServerURLFailsBeforeStoreIsOpened(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "session.db")

	err := run([]string{"-a", "not a url", "-s", "sqlite", "-d", dsn})

	require.Error(t, err)
	_, statErr := os.Stat(dsn)
	assert.True(t, os.IsNotExist(statErr), "session store must not be opened")
}

func TestRun_UnknownSessionStore(t *testing.T) {
	err := run([]string{"-a", "http://localhost:8080", "-s", "etcd"})

	require.ErrorIs(t, err, sessionrepo.ErrUnknownBackend)
}
