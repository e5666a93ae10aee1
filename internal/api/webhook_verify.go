package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook verification errors. All of them reject the delivery; there is
// no trust-on-failure fallback.
var (
	errWebhookNoSecret     = errors.New("webhook signing secret not configured")
	errWebhookBadHeaders   = errors.New("missing webhook signature headers")
	errWebhookStale        = errors.New("webhook timestamp outside tolerance")
	errWebhookBadSignature = errors.New("webhook signature mismatch")
)

const webhookSecretPrefix = "whsec_"

// verifyWebhookSignature checks a delivery against the provider's signing
// scheme: HMAC-SHA256 over "<id>.<timestamp>.<payload>" with the shared
// secret, compared in constant time against every "v1,<base64>" entry in
// the signature header. The timestamp must fall within tolerance of now.
func verifyWebhookSignature(secret, msgID, timestamp, signatureHeader string, payload []byte, tolerance time.Duration, now time.Time) error {
	if secret == "" {
		return errWebhookNoSecret
	}
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return errWebhookBadHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", errWebhookBadHeaders)
	}
	sent := time.Unix(ts, 0)
	if diff := now.Sub(sent); diff > tolerance || diff < -tolerance {
		return errWebhookStale
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, webhookSecretPrefix))
	if err != nil {
		return fmt.Errorf("invalid signing secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, entry := range strings.Fields(signatureHeader) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		given, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(given, expected) {
			return nil
		}
	}
	return errWebhookBadSignature
}
