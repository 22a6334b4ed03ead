package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

func staticTokens(token string) *tokenSource {
	return &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return token, time.Now().Add(time.Hour), nil
		},
	}
}

func TestReadObjectSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Query().Get("alt") != "media" {
			t.Errorf("expected alt=media, got %q", r.URL.RawQuery)
		}
		if r.URL.EscapedPath() != "/storage/v1/b/bucket/o/shop%2Fdata%2Fconfig_general.json" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"nombre_tienda":"Luxe"}`))
	}))
	defer srv.Close()

	client := newClient(srv.Client(), srv.URL, config.GCSConfig{BucketName: "bucket", Prefix: "shop/"}, staticTokens("tok"))

	data, err := client.ReadObject(context.Background(), "", client.ObjectName("data/config_general.json"))
	if err != nil {
		t.Fatalf("ReadObject returned error: %v", err)
	}
	if string(data) != `{"nombre_tienda":"Luxe"}` {
		t.Fatalf("unexpected body %s", data)
	}
}

func TestReadObjectNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newClient(srv.Client(), srv.URL, config.GCSConfig{BucketName: "bucket"}, staticTokens("tok"))

	_, err := client.ReadObject(context.Background(), "", "missing.json")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestReadObjectServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newClient(srv.Client(), srv.URL, config.GCSConfig{BucketName: "bucket"}, staticTokens("tok"))

	if _, err := client.ReadObject(context.Background(), "", "x.json"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestPingRequiresBucket(t *testing.T) {
	t.Parallel()

	client := newClient(http.DefaultClient, defaultBaseURL, config.GCSConfig{}, staticTokens("tok"))
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error without bucket")
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			atomic.AddInt32(&calls, 1)
			return "cached", time.Now().Add(time.Hour), nil
		},
	}
	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("Token returned error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
}

func TestServiceAccountTokenExchange(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	var tokenURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		assertion := r.PostForm.Get("assertion")
		claims := &assertionClaims{}
		_, err := jwt.ParseWithClaims(assertion, claims, func(*jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		if err != nil {
			t.Errorf("invalid assertion: %v", err)
		}
		if claims.Issuer != "reader@example.com" || claims.Scope != scope {
			t.Errorf("unexpected claims %+v", claims)
		}
		if len(claims.Audience) != 1 || claims.Audience[0] != tokenURI {
			t.Errorf("unexpected audience %v", claims.Audience)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "sa-token", "expires_in": 3600})
	}))
	defer srv.Close()
	tokenURI = srv.URL + "/token"

	creds, _ := json.Marshal(serviceAccount{
		ClientEmail: "reader@example.com",
		PrivateKey:  string(keyPEM),
		TokenURI:    tokenURI,
	})
	ts, err := newServiceAccountTokenSource(srv.Client(), string(creds))
	if err != nil {
		t.Fatalf("newServiceAccountTokenSource returned error: %v", err)
	}
	token, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "sa-token" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestServiceAccountRejectsIncompleteCredentials(t *testing.T) {
	t.Parallel()

	if _, err := newServiceAccountTokenSource(http.DefaultClient, `{"client_email":"a@b.c"}`); err == nil {
		t.Fatal("expected error for missing private key")
	}
}
