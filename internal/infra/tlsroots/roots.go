package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when PEM data holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// AppendPEM adds every CERTIFICATE block in data to pool and returns how
// many were added. Other block types are skipped.
func AppendPEM(pool *x509.CertPool, data []byte) (int, error) {
	n := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return n, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		pool.AddCert(cert)
		n++
	}

	if n == 0 {
		return 0, ErrNoCertsFound
	}
	return n, nil
}

// LoadCAFile reads a PEM bundle into a new pool. Only the certificates in
// the file are trusted; system roots are not included.
func LoadCAFile(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if _, err := AppendPEM(pool, data); err != nil {
		return nil, fmt.Errorf("tlsroots: %s: %w", path, err)
	}
	return pool, nil
}

// ClientConfig returns a client TLS config for serverName. With an empty
// caFile the system roots are used.
func ClientConfig(serverName, caFile string, insecure bool) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName:         serverName,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in via --insecure
	}
	if caFile != "" {
		pool, err := LoadCAFile(caFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
