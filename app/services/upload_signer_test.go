package services

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"testing"
	"time"
)

func TestSignProducesVerifiableSignature(t *testing.T) {
	signer := NewUploadSigner("private-key")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return now }

	sig := signer.Sign()

	if sig.Token == "" {
		t.Fatal("expected a token")
	}
	wantExpire := now.Add(30 * time.Minute).Unix()
	if sig.Expire != wantExpire {
		t.Fatalf("expected expire %d, got %d", wantExpire, sig.Expire)
	}

	mac := hmac.New(sha1.New, []byte("private-key"))
	mac.Write([]byte(sig.Token + strconv.FormatInt(sig.Expire, 10)))
	if sig.Signature != hex.EncodeToString(mac.Sum(nil)) {
		t.Fatal("signature does not verify against token+expire")
	}
}

func TestSignMintsFreshTokens(t *testing.T) {
	signer := NewUploadSigner("private-key")
	if signer.Sign().Token == signer.Sign().Token {
		t.Fatal("each signature must carry a fresh token")
	}
}
