// Package tlsroots loads TLS material for kiwi.
//
// CertWatcher serves a server certificate through tls.Config.GetCertificate
// and swaps it in when the certificate or key file changes on disk, so
// rotated certificates are picked up without a restart. LoadCAFile and
// ClientConfig build the trust settings the CLI uses to verify a server.
package tlsroots
