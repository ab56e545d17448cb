package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// SslMaterial holds optional inline PEM text for the broker TLS handshake.
// A zero value means plaintext; any non-empty field switches the security
// protocol to SSL, grounded on rogpeppe-contrib-kt's setupCerts (which reads
// the same material from files instead of inline strings).
type SslMaterial struct {
	CAPem          string
	CertificatePem string
	KeyPem         string
}

// Enabled reports whether any TLS material was supplied.
func (m SslMaterial) Enabled() bool {
	return m.CAPem != "" || m.CertificatePem != "" || m.KeyPem != ""
}

// TLSConfig builds a *tls.Config from whichever of CA/cert/key PEM are
// present. It returns (nil, nil) when no material was supplied, signalling
// the caller should leave TLS disabled.
func (m SslMaterial) TLSConfig() (*tls.Config, error) {
	if !m.Enabled() {
		return nil, nil
	}

	cfg := &tls.Config{}

	if m.CAPem != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(m.CAPem)) {
			return nil, fmt.Errorf("failed to parse ssl_ca_pem")
		}
		cfg.RootCAs = pool
	}

	if m.CertificatePem != "" || m.KeyPem != "" {
		if m.CertificatePem == "" || m.KeyPem == "" {
			return nil, fmt.Errorf("ssl_certificate_pem and ssl_key_pem must both be set")
		}
		cert, err := tls.X509KeyPair([]byte(m.CertificatePem), []byte(m.KeyPem))
		if err != nil {
			return nil, fmt.Errorf("failed to parse client certificate/key: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
