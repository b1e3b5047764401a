package imagekit

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/google/uuid"
)

// UploadAuth is the parameter set a browser needs to upload directly to the
// image service: a one-time token, its expiry, and an HMAC-SHA1 signature over
// token+expire computed with the private key.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// Signer produces upload auth parameters from configured credentials.
type Signer struct {
	cfg config.ImageKitConfig
}

func NewSigner(cfg config.ImageKitConfig) *Signer {
	return &Signer{cfg: cfg}
}

// Sign issues a fresh upload auth parameter set. The token is single-purpose;
// callers must not cache the response.
func (s *Signer) Sign(now time.Time) (*UploadAuth, error) {
	if !s.cfg.Configured() {
		return nil, fmt.Errorf("imagekit credentials not configured")
	}

	token := uuid.NewString()
	expire := now.Add(s.cfg.TokenTTL).Unix()

	mac := hmac.New(sha1.New, []byte(s.cfg.PrivateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	signature := hex.EncodeToString(mac.Sum(nil))

	return &UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: signature,
		PublicKey: s.cfg.PublicKey,
	}, nil
}
