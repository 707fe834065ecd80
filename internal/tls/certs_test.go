// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package tls

import (
	cryptotls "crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parley-chat/parley/pkg/errutil"
)

func TestGenerateCA(t *testing.T) {
	ca, err := GenerateCA()
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	if !ca.Certificate.IsCA {
		t.Error("certificate is not a CA")
	}
	if ca.Certificate.Subject.CommonName != "Parley Development CA" {
		t.Errorf("CN = %q", ca.Certificate.Subject.CommonName)
	}
	if ca.Certificate.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Error("CA cannot sign certificates")
	}
	if !ca.Certificate.NotAfter.After(time.Now().AddDate(9, 0, 0)) {
		t.Errorf("CA expires too soon: %v", ca.Certificate.NotAfter)
	}
}

func TestGenerateServerCert_VerifiesAgainstCA(t *testing.T) {
	ca, err := GenerateCA()
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	server, err := GenerateServerCert(ca, []string{"chat.example.test", "10.0.0.7"})
	if err != nil {
		t.Fatalf("GenerateServerCert() error = %v", err)
	}

	roots := x509.NewCertPool()
	roots.AddCert(ca.Certificate)
	for _, name := range []string{"chat.example.test", "10.0.0.7"} {
		_, err := server.Certificate.Verify(x509.VerifyOptions{
			DNSName:   name,
			Roots:     roots,
			KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		})
		if err != nil {
			t.Errorf("Verify(%q) error = %v", name, err)
		}
	}

	if err := server.Certificate.VerifyHostname("localhost"); err == nil {
		t.Error("certificate should not cover localhost when hosts are given")
	}
}

func TestGenerateServerCert_DefaultHosts(t *testing.T) {
	ca, err := GenerateCA()
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	server, err := GenerateServerCert(ca, nil)
	if err != nil {
		t.Fatalf("GenerateServerCert() error = %v", err)
	}

	if len(server.Certificate.DNSNames) != 1 || server.Certificate.DNSNames[0] != "localhost" {
		t.Errorf("DNSNames = %v, want [localhost]", server.Certificate.DNSNames)
	}
	wantIPs := []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")}
	if len(server.Certificate.IPAddresses) != len(wantIPs) {
		t.Fatalf("IPAddresses = %v, want %v", server.Certificate.IPAddresses, wantIPs)
	}
	for i, ip := range wantIPs {
		if !server.Certificate.IPAddresses[i].Equal(ip) {
			t.Errorf("IPAddresses[%d] = %v, want %v", i, server.Certificate.IPAddresses[i], ip)
		}
	}
}

func TestGenerateServerCert_RequiresCA(t *testing.T) {
	_, err := GenerateServerCert(nil, nil)
	errutil.AssertErrorCode(t, err, "TLS_CA_REQUIRED")

	_, err = GenerateServerCert(&CA{}, nil)
	errutil.AssertErrorCode(t, err, "TLS_CA_REQUIRED")
}

func TestSaveCertificates_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	ca, err := GenerateCA()
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	server, err := GenerateServerCert(ca, nil)
	if err != nil {
		t.Fatalf("GenerateServerCert() error = %v", err)
	}

	if err := SaveCertificates(dir, ca, server); err != nil {
		t.Fatalf("SaveCertificates() error = %v", err)
	}

	for _, name := range []string{CACertFile, CAKeyFile, ServerCertFile, ServerKeyFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("%s mode = %o, want 600", name, perm)
		}
	}

	loaded, err := LoadCA(dir)
	if err != nil {
		t.Fatalf("LoadCA() error = %v", err)
	}
	if !loaded.Certificate.Equal(ca.Certificate) {
		t.Error("loaded CA certificate differs")
	}
	if !loaded.PrivateKey.Equal(ca.PrivateKey) {
		t.Error("loaded CA key differs")
	}

	cfg, err := ServerConfig(filepath.Join(dir, ServerCertFile), filepath.Join(dir, ServerKeyFile))
	if err != nil {
		t.Fatalf("ServerConfig() error = %v", err)
	}
	if cfg.MinVersion != cryptotls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("Certificates = %d, want 1", len(cfg.Certificates))
	}
}

func TestSaveCertificates_CAOnly(t *testing.T) {
	dir := t.TempDir()
	ca, err := GenerateCA()
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	if err := SaveCertificates(dir, ca, nil); err != nil {
		t.Fatalf("SaveCertificates() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ServerCertFile)); !os.IsNotExist(err) {
		t.Errorf("server certificate should not be written, stat error = %v", err)
	}
}

func TestLoadCA_Errors(t *testing.T) {
	t.Run("missing files", func(t *testing.T) {
		_, err := LoadCA(t.TempDir())
		errutil.AssertErrorCode(t, err, "TLS_LOAD_FAILED")
	})

	t.Run("not pem", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, CACertFile), []byte("garbage"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, CAKeyFile), []byte("garbage"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadCA(dir)
		errutil.AssertErrorCode(t, err, "TLS_LOAD_FAILED")
	})

	t.Run("server certificate is not a CA", func(t *testing.T) {
		dir := t.TempDir()
		ca, err := GenerateCA()
		if err != nil {
			t.Fatal(err)
		}
		server, err := GenerateServerCert(ca, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := SaveCertificates(dir, &CA{Certificate: server.Certificate, PrivateKey: server.PrivateKey}, nil); err != nil {
			t.Fatal(err)
		}
		_, err = LoadCA(dir)
		errutil.AssertErrorCode(t, err, "TLS_LOAD_FAILED")
	})
}

func TestServerConfig_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := ServerConfig(filepath.Join(dir, "nope.crt"), filepath.Join(dir, "nope.key"))
	errutil.AssertErrorCode(t, err, "TLS_LOAD_FAILED")
}
