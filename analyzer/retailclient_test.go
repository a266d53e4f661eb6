package analyzer

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return path, key
}

func TestNewRetailClientRejectsBadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	creds := Credentials{ConsumerID: "consumer", KeyVersion: "1", PrivateKeyPath: path}
	if _, err := NewRetailClient(creds, testClientConfig("http://localhost"), nil); err == nil {
		t.Fatal("NewRetailClient accepted a garbage key file")
	}
	creds.PrivateKeyPath = filepath.Join(t.TempDir(), "missing.pem")
	if _, err := NewRetailClient(creds, testClientConfig("http://localhost"), nil); err == nil {
		t.Fatal("NewRetailClient accepted a missing key file")
	}
}

func TestRetailClientSignsRequests(t *testing.T) {
	keyPath, key := writeTestKey(t)
	creds := Credentials{ConsumerID: "consumer-1", KeyVersion: "2", PrivateKeyPath: keyPath}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		consumerID := r.Header.Get("WM_CONSUMER.ID")
		ts := r.Header.Get("WM_CONSUMER.INTIMESTAMP")
		keyVersion := r.Header.Get("WM_SEC.KEY_VERSION")
		sig := r.Header.Get("WM_SEC.AUTH_SIGNATURE")
		if consumerID != "consumer-1" || keyVersion != "2" || ts == "" || sig == "" {
			t.Errorf("auth headers incomplete: id=%q ts=%q kv=%q sig=%q", consumerID, ts, keyVersion, sig)
		}
		raw, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			t.Errorf("signature is not base64: %v", err)
		}
		digest := sha256.Sum256([]byte(consumerID + "\n" + ts + "\n" + keyVersion + "\n"))
		if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], raw); err != nil {
			t.Errorf("signature does not verify: %v", err)
		}
		fmt.Fprint(w, `{"items":[{"itemId":42,"name":"Cereal","brandName":"Acme","salePrice":4.99}]}`)
	}))
	defer server.Close()

	client, err := NewRetailClient(creds, testClientConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRetailClient: %v", err)
	}
	item, found := client.LookupItem(context.Background(), "036000291452")
	if !found {
		t.Fatal("LookupItem reported a miss")
	}
	if item.ItemID != 42 || item.SalePrice != 4.99 || item.Name != "Cereal" {
		t.Errorf("item = %+v", item)
	}
}

func TestRetailClientLookupItemMiss(t *testing.T) {
	keyPath, _ := writeTestKey(t)
	creds := Credentials{ConsumerID: "consumer", KeyVersion: "1", PrivateKeyPath: keyPath}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewRetailClient(creds, testClientConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRetailClient: %v", err)
	}
	if _, found := client.LookupItem(context.Background(), "1234"); found {
		t.Error("LookupItem reported success on a 403")
	}
}

func TestRetailClientSearchParams(t *testing.T) {
	keyPath, _ := writeTestKey(t)
	creds := Credentials{ConsumerID: "consumer", KeyVersion: "1", PrivateKeyPath: keyPath}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "PEANUT BUTTER" || q.Get("numItems") != "5" || q.Get("format") != "json" {
			t.Errorf("query params = %v", q)
		}
		fmt.Fprint(w, `{"items":[{"itemId":7,"name":"PEANUT BUTTER","salePrice":2.50}]}`)
	}))
	defer server.Close()

	client, err := NewRetailClient(creds, testClientConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRetailClient: %v", err)
	}
	items, err := client.Search(context.Background(), "PEANUT BUTTER", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].ItemID != 7 {
		t.Errorf("items = %+v", items)
	}
}
