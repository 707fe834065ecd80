// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package tls generates development certificates and loads the API's TLS
// key pair.
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	cryptotls "crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

// File names written by SaveCertificates.
const (
	CACertFile     = "ca.crt"
	CAKeyFile      = "ca.key"
	ServerCertFile = "server.crt"
	ServerKeyFile  = "server.key"
)

const (
	caLifetime     = 10 * 365 * 24 * time.Hour
	serverLifetime = 365 * 24 * time.Hour
)

// DefaultHosts are the names a development server certificate covers when
// none are given.
var DefaultHosts = []string{"localhost", "127.0.0.1", "::1"}

// CA holds a certificate authority certificate and private key.
type CA struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

// ServerCert holds a server certificate and private key.
type ServerCert struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

// GenerateCA creates a self-signed P-256 root for local development.
func GenerateCA() (*CA, error) {
	key, serial, err := newKeyAndSerial()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Parley"},
			CommonName:   "Parley Development CA",
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(caLifetime),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		MaxPathLenZero:        true,
	}

	cert, err := createCertificate(template, template, key, key)
	if err != nil {
		return nil, oops.Code("TLS_CA_FAILED").Wrap(err)
	}
	return &CA{Certificate: cert, PrivateKey: key}, nil
}

// GenerateServerCert issues a server certificate signed by ca. Each host is
// added as an IP SAN when it parses as an address and as a DNS SAN
// otherwise. An empty hosts list means DefaultHosts.
func GenerateServerCert(ca *CA, hosts []string) (*ServerCert, error) {
	if ca == nil || ca.Certificate == nil || ca.PrivateKey == nil {
		return nil, oops.Code("TLS_CA_REQUIRED").Errorf("a certificate authority is required")
	}
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}

	key, serial, err := newKeyAndSerial()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Parley"},
			CommonName:   hosts[0],
		},
		NotBefore:   now.Add(-time.Minute),
		NotAfter:    now.Add(serverLifetime),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	cert, err := createCertificate(template, ca.Certificate, key, ca.PrivateKey)
	if err != nil {
		return nil, oops.Code("TLS_SERVER_CERT_FAILED").With("hosts", hosts).Wrap(err)
	}
	return &ServerCert{Certificate: cert, PrivateKey: key}, nil
}

func newKeyAndSerial() (*ecdsa.PrivateKey, *big.Int, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, oops.Code("TLS_KEY_FAILED").Wrap(err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, oops.Code("TLS_KEY_FAILED").With("operation", "generate serial").Wrap(err)
	}
	return key, serial, nil
}

func createCertificate(template, parent *x509.Certificate, key, signer *ecdsa.PrivateKey) (*x509.Certificate, error) {
	der, err := x509.CreateCertificate(rand.Reader, template, parent, &key.PublicKey, signer)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

type pemFile struct {
	name  string
	write func(path string) error
}

// SaveCertificates writes the CA and, when non-nil, the server pair into dir
// as PEM files readable only by the owner.
func SaveCertificates(dir string, ca *CA, server *ServerCert) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return oops.Code("TLS_SAVE_FAILED").With("dir", dir).Wrap(err)
	}

	files := []pemFile{
		{CACertFile, func(p string) error { return saveCert(p, ca.Certificate) }},
		{CAKeyFile, func(p string) error { return saveKey(p, ca.PrivateKey) }},
	}
	if server != nil {
		files = append(files,
			pemFile{ServerCertFile, func(p string) error { return saveCert(p, server.Certificate) }},
			pemFile{ServerKeyFile, func(p string) error { return saveKey(p, server.PrivateKey) }},
		)
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := f.write(path); err != nil {
			return oops.Code("TLS_SAVE_FAILED").With("path", path).Wrap(err)
		}
	}
	return nil
}

// LoadCA reads a CA previously written by SaveCertificates.
func LoadCA(dir string) (*CA, error) {
	certPath := filepath.Join(dir, CACertFile)
	keyPath := filepath.Join(dir, CAKeyFile)

	certPEM, err := os.ReadFile(filepath.Clean(certPath))
	if err != nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", certPath).Wrap(err)
	}
	keyPEM, err := os.ReadFile(filepath.Clean(keyPath))
	if err != nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", keyPath).Wrap(err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", certPath).Errorf("no PEM block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", certPath).Wrap(err)
	}
	if !cert.IsCA {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", certPath).Errorf("certificate is not a CA")
	}

	block, _ = pem.Decode(keyPEM)
	if block == nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", keyPath).Errorf("no PEM block found")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, oops.Code("TLS_LOAD_FAILED").With("path", keyPath).Wrap(err)
	}

	return &CA{Certificate: cert, PrivateKey: key}, nil
}

// ServerConfig loads certFile and keyFile into a server TLS config that
// refuses anything older than TLS 1.2.
func ServerConfig(certFile, keyFile string) (*cryptotls.Config, error) {
	pair, err := cryptotls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, oops.Code("TLS_LOAD_FAILED").
			With("cert_file", certFile).
			With("key_file", keyFile).
			Wrap(err)
	}
	return &cryptotls.Config{
		Certificates: []cryptotls.Certificate{pair},
		MinVersion:   cryptotls.VersionTLS12,
	}, nil
}

func saveCert(path string, cert *x509.Certificate) error {
	return writePEM(path, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

func saveKey(path string, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}
	return writePEM(path, &pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

func writePEM(path string, block *pem.Block) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := pem.Encode(f, block); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
