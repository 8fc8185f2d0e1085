package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HMACService implements ports.MACService using HMAC-SHA256 over the
// protocol's canonical five-slot string.
type HMACService struct{}

// NewHMACService creates a new HMAC-SHA256 MAC service.
func NewHMACService() *HMACService {
	return &HMACService{}
}

// Compute joins the five slots with a literal '*' and returns the lowercase
// hex HMAC-SHA256 digest. Empty slots serialize as empty strings: the slot
// count and delimiter count are fixed regardless of emptiness.
func (s *HMACService) Compute(key []byte, payID, transID, merchantID, amountOrStatus, currencyOrCode string) string {
	canonical := strings.Join([]string{payID, transID, merchantID, amountOrStatus, currencyOrCode}, "*")
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the digest and compares it against the supplied MAC in
// constant time.
func (s *HMACService) Verify(key []byte, mac string, payID, transID, merchantID, amountOrStatus, currencyOrCode string) bool {
	expected := s.Compute(key, payID, transID, merchantID, amountOrStatus, currencyOrCode)
	return hmac.Equal([]byte(expected), []byte(mac))
}
