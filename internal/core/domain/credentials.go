package domain

import (
	"fmt"
	"time"
)

// MerchantCredentials holds the per-tenant gateway configuration. Immutable
// after load; safe to share across concurrent verifications.
//
// The gateway protocol treats both secrets as raw keys: the Blowfish key and
// the HMAC key are the UTF-8 bytes of the configured passwords, with no
// further derivation.
type MerchantCredentials struct {
	MerchantID     string    `json:"merchant_id"`
	BlowfishSecret string    `json:"-"`
	HMACSecret     string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// CipherKey returns the symmetric key for the Blowfish codec.
func (c *MerchantCredentials) CipherKey() []byte {
	return []byte(c.BlowfishSecret)
}

// MACKey returns the key for the HMAC module.
func (c *MerchantCredentials) MACKey() []byte {
	return []byte(c.HMACSecret)
}

// Validate checks that the credentials are complete. A failure here is a
// configuration error and must abort startup, never a per-request condition.
func (c *MerchantCredentials) Validate() error {
	if c.MerchantID == "" {
		return fmt.Errorf("merchant id is empty")
	}
	if c.BlowfishSecret == "" {
		return fmt.Errorf("blowfish password is empty for merchant %s", c.MerchantID)
	}
	if c.HMACSecret == "" {
		return fmt.Errorf("hmac password is empty for merchant %s", c.MerchantID)
	}
	return nil
}
