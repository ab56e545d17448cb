package kafka

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func selfSignedPEMPair(c *qt.C) (certPEM, keyPEM string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	c.Assert(err, qt.IsNil)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "rkl-test"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	c.Assert(err, qt.IsNil)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
	return certPEM, keyPEM
}

func TestSslMaterialDisabledByDefault(t *testing.T) {
	c := qt.New(t)
	var m SslMaterial
	c.Assert(m.Enabled(), qt.IsFalse)

	cfg, err := m.TLSConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.IsNil)
}

func TestSslMaterialWithCAOnly(t *testing.T) {
	c := qt.New(t)
	certPEM, _ := selfSignedPEMPair(c)

	m := SslMaterial{CAPem: certPEM}
	c.Assert(m.Enabled(), qt.IsTrue)

	cfg, err := m.TLSConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.RootCAs, qt.Not(qt.IsNil))
	c.Assert(cfg.Certificates, qt.HasLen, 0)
}

func TestSslMaterialWithClientCert(t *testing.T) {
	c := qt.New(t)
	certPEM, keyPEM := selfSignedPEMPair(c)

	m := SslMaterial{CertificatePem: certPEM, KeyPem: keyPEM}
	cfg, err := m.TLSConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Certificates, qt.HasLen, 1)
}

func TestSslMaterialMissingKeyErrors(t *testing.T) {
	c := qt.New(t)
	certPEM, _ := selfSignedPEMPair(c)

	m := SslMaterial{CertificatePem: certPEM}
	_, err := m.TLSConfig()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestSslMaterialInvalidCAErrors(t *testing.T) {
	c := qt.New(t)
	m := SslMaterial{CAPem: "not a pem"}
	_, err := m.TLSConfig()
	c.Assert(err, qt.Not(qt.IsNil))
}
