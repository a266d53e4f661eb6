package analyzer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Credentials identify this consumer to the retailer catalog API. The
// private key stays on disk and is only ever referenced by path.
type Credentials struct {
	ConsumerID     string
	KeyVersion     string
	PrivateKeyPath string
}

// CredentialsFromEnv reads WALMART_CONSUMER_ID, WALMART_KEY_VERSION and
// WALMART_PRIVATE_KEY_PATH. The second return is false when the credential
// is incomplete, meaning the catalog client should stay disabled.
func CredentialsFromEnv() (Credentials, bool) {
	creds := Credentials{
		ConsumerID:     os.Getenv("WALMART_CONSUMER_ID"),
		KeyVersion:     os.Getenv("WALMART_KEY_VERSION"),
		PrivateKeyPath: os.Getenv("WALMART_PRIVATE_KEY_PATH"),
	}
	if creds.KeyVersion == "" {
		creds.KeyVersion = "1"
	}
	return creds, creds.ConsumerID != "" && creds.PrivateKeyPath != ""
}

// requestSigner produces the per-request authentication headers the
// catalog API expects.
type requestSigner struct {
	consumerID string
	keyVersion string
	key        *rsa.PrivateKey
	now        func() time.Time
}

func newRequestSigner(creds Credentials) (*requestSigner, error) {
	data, err := os.ReadFile(creds.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("private key is not PEM encoded")
	}
	key, err := parseRSAPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &requestSigner{
		consumerID: creds.ConsumerID,
		keyVersion: creds.KeyVersion,
		key:        key,
		now:        time.Now,
	}, nil
}

func parseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return key, nil
}

// sign applies the catalog auth headers: a PKCS#1 v1.5 SHA-256 signature
// over the canonical string "consumerID\ntimestampMillis\nkeyVersion\n".
func (s *requestSigner) sign(req *http.Request) error {
	ts := strconv.FormatInt(s.now().UnixMilli(), 10)
	canonical := s.consumerID + "\n" + ts + "\n" + s.keyVersion + "\n"
	digest := sha256.Sum256([]byte(canonical))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return fmt.Errorf("sign canonical string: %w", err)
	}
	req.Header.Set("WM_SEC.KEY_VERSION", s.keyVersion)
	req.Header.Set("WM_CONSUMER.ID", s.consumerID)
	req.Header.Set("WM_CONSUMER.INTIMESTAMP", ts)
	req.Header.Set("WM_SEC.AUTH_SIGNATURE", base64.StdEncoding.EncodeToString(sig))
	req.Header.Set("Accept", "application/json")
	return nil
}
