package web

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math/big"
	"time"
)

// certValidity keeps the certificate under Chrome's 14-day ceiling for
// serverCertificateHashes.
const certValidity = 10 * 24 * time.Hour

// CertInfo holds the generated WebTransport certificate.
type CertInfo struct {
	TLSConfig *tls.Config
	DER       []byte
	Hash      [32]byte // SHA-256, handed to the browser via /cert-hash
}

// GenerateSelfSignedCert creates an ephemeral ECDSA P-256 certificate for
// the WebTransport listener. Browsers trust it through the hash published on
// /cert-hash, so no key material ever touches disk.
func GenerateSelfSignedCert() (*CertInfo, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber:          serial,
		NotBefore:             now,
		NotAfter:              now.Add(certValidity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &CertInfo{
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{{
				Certificate: [][]byte{der},
				PrivateKey:  key,
				// Chrome's WebTransport stack wants the parsed leaf present
				Leaf: leaf,
			}},
			MinVersion: tls.VersionTLS12,
		},
		DER:  der,
		Hash: sha256.Sum256(der),
	}, nil
}
