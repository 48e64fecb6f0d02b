package ledger

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIdentity(t *testing.T, dir, username string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: username},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	idDir := filepath.Join(dir, username)
	require.NoError(t, os.MkdirAll(idDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(idDir, "cert.pem"), pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(idDir, "key.pem"), pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
}

func TestFileWallet(t *testing.T) {
	dir := t.TempDir()
	writeIdentity(t, dir, "hoangdd")
	w := NewFileWallet(dir)

	cert, err := w.Credentials("hoangdd")
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)

	_, err = w.Credentials("tantrinh")
	assert.Error(t, err)

	_, err = w.Credentials("../hoangdd")
	assert.Error(t, err)
	_, err = w.Credentials("")
	assert.Error(t, err)
}

func TestFileWalletBrokenKeyPair(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gv01"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gv01", "cert.pem"), []byte("garbage"), 0o600))

	_, err := NewFileWallet(dir).Credentials("gv01")
	assert.Error(t, err)
}
