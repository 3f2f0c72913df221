package services

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const uploadSignatureTTL = 30 * time.Minute

// UploadSignature is the short-lived credential the admin UI presents to the
// image CDN for a direct browser upload.
type UploadSignature struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// UploadSigner produces CDN upload signatures. The CDN's scheme is an
// HMAC-SHA1 hex digest over token+expire with the account's private key,
// which no SDK in use covers, so it is computed here directly.
type UploadSigner struct {
	privateKey []byte
	now        func() time.Time
}

func NewUploadSigner(privateKey string) *UploadSigner {
	return &UploadSigner{privateKey: []byte(privateKey), now: time.Now}
}

func (s *UploadSigner) Sign() UploadSignature {
	token := uuid.New().String()
	expire := s.now().Add(uploadSignatureTTL).Unix()

	mac := hmac.New(sha1.New, s.privateKey)
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))

	return UploadSignature{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}
