package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyPair stores a self-signed loopback certificate in dir and returns
// the file paths together with a pool that trusts it.
func writeKeyPair(t *testing.T, dir string) (string, string, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(42),
		Subject:               pkix.Name{CommonName: "fingerprintd"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	certFile := filepath.Join(dir, "fingerprintd.crt")
	keyFile := filepath.Join(dir, "fingerprintd.key")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))

	parsed, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(parsed)

	return certFile, keyFile, pool
}

// acceptHandshake completes the server side of one TLS connection.
func acceptHandshake(ln net.Listener) <-chan error {
	done := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		done <- conn.(*tls.Conn).Handshake()
	}()
	return done
}

func TestNewSecurityLayer(t *testing.T) {
	_, isTLS := NewSecurityLayer(true, "c.pem", "k.pem").(*TLSListener)
	assert.True(t, isTLS)

	_, isPlain := NewSecurityLayer(false, "", "").(*PlainListener)
	assert.True(t, isPlain)
}

func TestTLSListener_NegotiatesH2(t *testing.T) {
	certFile, keyFile, pool := writeKeyPair(t, t.TempDir())

	ln, err := NewTLSListener(certFile, keyFile).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	done := acceptHandshake(ln)

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		RootCAs:    pool,
		NextProtos: []string{"h2"},
		MinVersion: tls.VersionTLS12,
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "h2", conn.ConnectionState().NegotiatedProtocol)
	require.NoError(t, <-done)
}

func TestTLSListener_RejectsLegacyVersions(t *testing.T) {
	certFile, keyFile, pool := writeKeyPair(t, t.TempDir())

	ln, err := NewTLSListener(certFile, keyFile).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	done := acceptHandshake(ln)

	_, err = tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS10,
		MaxVersion: tls.VersionTLS11,
	})
	assert.Error(t, err)
	assert.Error(t, <-done)
}

func TestListen_Errors(t *testing.T) {
	certFile, keyFile, _ := writeKeyPair(t, t.TempDir())

	tests := []struct {
		name    string
		layer   interface{ Listen(string, string) (net.Listener, error) }
		addr    string
		wantErr string
	}{
		{
			name:    "missing key pair",
			layer:   NewTLSListener("absent.crt", "absent.key"),
			addr:    "127.0.0.1:0",
			wantErr: "failed to load TLS certificate",
		},
		{
			name:  "tls bad address",
			layer: NewTLSListener(certFile, keyFile),
			addr:  "not-an-address",
		},
		{
			name:  "plain bad address",
			layer: NewPlainListener(),
			addr:  "not-an-address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.layer.Listen("tcp", tt.addr)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPlainListener_Listen(t *testing.T) {
	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, ok := ln.(*net.TCPListener)
	assert.True(t, ok)
}
