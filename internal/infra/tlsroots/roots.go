package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound is returned when no certificates are found in a PEM file.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

	// ErrKeyWithoutCert is returned when a key file is given without a certificate.
	ErrKeyWithoutCert = errors.New("tlsroots: key file given without a certificate file")

	// ErrPasswordWithoutCert is returned when a password is given without a certificate file.
	ErrPasswordWithoutCert = errors.New("tlsroots: password given without a certificate file")

	// ErrInvalidCAFile wraps every failure to load the CA file of a client.
	ErrInvalidCAFile = errors.New("tlsroots: invalid CA file")

	// ErrInvalidKeyPair wraps every failure to load a client certificate.
	ErrInvalidKeyPair = errors.New("tlsroots: invalid certificate or key")
)

// Pool manages a pool of trusted root certificates.
type Pool struct {
	certPool *x509.CertPool
}

// NewEmptyPool creates a new empty certificate pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// AddCertFile adds certificates from a PEM file.
// Multiple certificates in the same file are supported.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read cert file %s: %w", path, err)
	}

	return p.AddCertPEM(data)
}

// AddCertPEM adds certificates from PEM-encoded data.
func (p *Pool) AddCertPEM(pemData []byte) error {
	var certsAdded int

	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}

		p.certPool.AddCert(cert)
		certsAdded++
	}

	if certsAdded == 0 {
		return ErrNoCertsFound
	}

	return nil
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// ClientOptions describes the TLS material of a websocket client.
type ClientOptions struct {
	// CAFile replaces the system roots with the certificates it contains.
	CAFile string
	// CertFile is the client certificate; it may hold the key as well.
	CertFile string
	// KeyFile is the client key when it is not part of CertFile.
	KeyFile string
	// Password decrypts an encrypted key.
	Password string
}

// IsZero reports whether no TLS material was configured.
func (o ClientOptions) IsZero() bool {
	return o == ClientOptions{}
}

// ClientConfig builds the TLS configuration of a websocket client.
// It returns nil when no material was configured so the dialer keeps its
// defaults.
func ClientConfig(opts ClientOptions) (*tls.Config, error) {
	if opts.IsZero() {
		return nil, nil
	}
	if opts.KeyFile != "" && opts.CertFile == "" {
		return nil, ErrKeyWithoutCert
	}
	if opts.Password != "" && opts.CertFile == "" {
		return nil, ErrPasswordWithoutCert
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if opts.CAFile != "" {
		pool := NewEmptyPool()
		if err := pool.AddCertFile(opts.CAFile); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCAFile, err)
		}
		cfg.RootCAs = pool.Pool()
	}

	if opts.CertFile != "" {
		cert, err := LoadKeyPair(opts.CertFile, opts.KeyFile, opts.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKeyPair, err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
