package ledger

import (
	"crypto/tls"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Wallet resolves the X.509 credentials an identity signs ledger calls with.
type Wallet interface {
	Credentials(username string) (tls.Certificate, error)
}

// FileWallet reads <dir>/<username>/cert.pem and key.pem.
type FileWallet struct {
	Dir string
}

func NewFileWallet(dir string) *FileWallet {
	return &FileWallet{Dir: dir}
}

func (w *FileWallet) Credentials(username string) (tls.Certificate, error) {
	if username == "" || filepath.Base(username) != username {
		return tls.Certificate{}, errors.Errorf("invalid wallet identity [%s]", username)
	}
	dir := filepath.Join(w.Dir, username)
	if _, err := os.Stat(dir); err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "identity [%s] not found in wallet", username)
	}
	cert, err := tls.LoadX509KeyPair(filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"))
	if err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "failed to load x509 key pair for [%s]", username)
	}
	return cert, nil
}
