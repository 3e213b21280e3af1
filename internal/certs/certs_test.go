package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_Certificate(t *testing.T) {
	tests := []struct {
		setup    func(t *testing.T, dir string)
		validate func(t *testing.T, cert *x509.Certificate)
		name     string
		hosts    []string
	}{
		{
			name: "creates certificate when none exists",
			validate: func(t *testing.T, cert *x509.Certificate) {
				t.Helper()
				assert.Equal(t, "macrolog", cert.Subject.Organization[0])
				assert.NoError(t, cert.VerifyHostname("localhost"))
				assert.NoError(t, cert.VerifyHostname("127.0.0.1"))
				assert.True(t, cert.NotAfter.After(time.Now().Add(364*24*time.Hour)))
			},
		},
		{
			name:  "covers extra LAN hosts",
			hosts: []string{"192.168.1.20", "kitchen.local"},
			validate: func(t *testing.T, cert *x509.Certificate) {
				t.Helper()
				assert.NoError(t, cert.VerifyHostname("192.168.1.20"))
				assert.NoError(t, cert.VerifyHostname("kitchen.local"))
			},
		},
		{
			name: "replaces corrupt files",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(dir, 0o700))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "macrolog.crt"), []byte("junk"), 0o600))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "macrolog.key"), []byte("junk"), 0o600))
			},
			validate: func(t *testing.T, cert *x509.Certificate) {
				t.Helper()
				assert.NoError(t, cert.VerifyHostname("localhost"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "certs")
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			cert, err := NewStore(dir, tt.hosts...).Certificate()
			require.NoError(t, err)
			tt.validate(t, leaf(t, cert))

			info, err := os.Stat(filepath.Join(dir, "macrolog.key"))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}
}

func TestStore_ReusesValidCertificate(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	second, err := NewStore(dir).Certificate()
	require.NoError(t, err)
	assert.Equal(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestStore_RegeneratesForNewHost(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	second, err := NewStore(dir, "10.0.0.5").Certificate()
	require.NoError(t, err)
	assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
	assert.NoError(t, leaf(t, second).VerifyHostname("10.0.0.5"))
}

func TestStore_RegeneratesExpired(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	first, err := store.Certificate()
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(Validity + 24*time.Hour) }
	second, err := store.Certificate()
	require.NoError(t, err)
	assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestStore_TLSConfig(t *testing.T) {
	cfg, err := NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}
