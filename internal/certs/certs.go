// Package certs keeps a self-signed certificate on disk so the API can be
// served over HTTPS on a home network. Phone browsers only expose the camera
// to pages loaded from a secure origin.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Validity is how long a generated certificate is accepted before it is
// regenerated.
const Validity = 365 * 24 * time.Hour

// Store loads or creates the serving certificate in a directory.
type Store struct {
	now   func() time.Time
	dir   string
	hosts []string
}

// NewStore returns a Store for dir covering localhost plus the extra hosts,
// which may be DNS names or IP addresses.
func NewStore(dir string, hosts ...string) *Store {
	all := []string{"localhost", "127.0.0.1", "::1"}
	for _, h := range hosts {
		if h != "" && !slices.Contains(all, h) {
			all = append(all, h)
		}
	}
	return &Store{dir: dir, hosts: all, now: time.Now}
}

func (s *Store) certFile() string { return filepath.Join(s.dir, "macrolog.crt") }
func (s *Store) keyFile() string  { return filepath.Join(s.dir, "macrolog.key") }

// Certificate returns the stored certificate, generating a new one when the
// files are missing, unreadable, expired, or do not cover every host.
func (s *Store) Certificate() (tls.Certificate, error) {
	// A missing or corrupt pair is overwritten.
	if cert, err := tls.LoadX509KeyPair(s.certFile(), s.keyFile()); err == nil {
		if s.verify(cert) == nil {
			return cert, nil
		}
	}
	return s.generate()
}

// TLSConfig wraps Certificate for use on an http.Server.
func (s *Store) TLSConfig() (*tls.Config, error) {
	cert, err := s.Certificate()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func (s *Store) verify(cert tls.Certificate) error {
	if len(cert.Certificate) == 0 {
		return errors.New("no certificates found")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	now := s.now()
	if now.Before(leaf.NotBefore) || now.After(leaf.NotAfter) {
		return errors.New("certificate outside its validity window")
	}
	for _, h := range s.hosts {
		if err := leaf.VerifyHostname(h); err != nil {
			return fmt.Errorf("certificate does not cover %s: %w", h, err)
		}
	}
	return nil
}

func (s *Store) generate() (tls.Certificate, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate private key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate serial: %w", err)
	}

	now := s.now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"macrolog"}, CommonName: "localhost"},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range s.hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to encode private key: %w", err)
	}

	if err := writePEM(s.certFile(), "CERTIFICATE", der); err != nil {
		return tls.Certificate{}, err
	}
	if err := writePEM(s.keyFile(), "EC PRIVATE KEY", keyDER); err != nil {
		return tls.Certificate{}, err
	}
	return tls.LoadX509KeyPair(s.certFile(), s.keyFile())
}

func writePEM(path, blockType string, der []byte) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
