package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoKeyFound is returned when no private key block is found.
var ErrNoKeyFound = errors.New("tlsroots: no private key found in PEM file")

// LoadKeyPair loads a certificate and its private key.
//
// When keyFile is empty the key is read from certFile. When password is
// set the key block is decrypted with it first.
func LoadKeyPair(certFile, keyFile, password string) (tls.Certificate, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsroots: read cert file %s: %w", certFile, err)
	}

	keyPEM := certPEM
	if keyFile != "" {
		keyPEM, err = os.ReadFile(keyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("tlsroots: read key file %s: %w", keyFile, err)
		}
	}

	keyPEM, err = extractKey(keyPEM, password)
	if err != nil {
		return tls.Certificate{}, err
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	return cert, nil
}

// extractKey returns the first private key block of data, decrypted.
func extractKey(data []byte, password string) ([]byte, error) {
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if !strings.HasSuffix(block.Type, "PRIVATE KEY") {
			continue
		}

		//nolint:staticcheck // RFC 1423 encrypted keys
		if password != "" && x509.IsEncryptedPEMBlock(block) {
			der, err := x509.DecryptPEMBlock(block, []byte(password)) //nolint:staticcheck
			if err != nil {
				return nil, fmt.Errorf("tlsroots: decrypt key: %w", err)
			}
			block = &pem.Block{Type: block.Type, Bytes: der}
		}
		return pem.EncodeToMemory(block), nil
	}
	return nil, ErrNoKeyFound
}
