package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	verifier := NewVerifier("test-key-secret")

	t.Run("accepts a correctly signed callback", func(t *testing.T) {
		signature := verifier.Signature("order_abc123", "pay_xyz789")
		err := verifier.Verify("order_abc123", "pay_xyz789", signature)
		assert.NoError(t, err)
	})

	t.Run("rejects a forged signature", func(t *testing.T) {
		err := verifier.Verify("order_abc123", "pay_xyz789", "deadbeef")
		assert.ErrorIs(t, err, ErrVerificationFailed)
	})

	t.Run("rejects a signature for a different payment", func(t *testing.T) {
		signature := verifier.Signature("order_abc123", "pay_xyz789")
		err := verifier.Verify("order_abc123", "pay_other", signature)
		assert.ErrorIs(t, err, ErrVerificationFailed)
	})

	t.Run("rejects a signature computed with a different secret", func(t *testing.T) {
		other := NewVerifier("wrong-secret")
		signature := other.Signature("order_abc123", "pay_xyz789")
		err := verifier.Verify("order_abc123", "pay_xyz789", signature)
		assert.ErrorIs(t, err, ErrVerificationFailed)
	})
}

func TestVerifier_Signature(t *testing.T) {
	verifier := NewVerifier("test-key-secret")

	// The signed message is "orderID|paymentID", hex encoded
	mac := hmac.New(sha256.New, []byte("test-key-secret"))
	mac.Write([]byte("order_abc123|pay_xyz789"))
	expected := hex.EncodeToString(mac.Sum(nil))

	got := verifier.Signature("order_abc123", "pay_xyz789")
	require.Equal(t, expected, got)
	assert.Len(t, got, 64)
}
