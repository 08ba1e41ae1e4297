package payments

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Razorpay signatures are hex HMAC-SHA256 digests
var gatewaySignaturePattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// RegisterValidators installs payment-specific binding validators on gin's
// validator engine. Malformed signatures are rejected at bind time, before
// the verifier ever runs.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("gatewaysig", func(fl validator.FieldLevel) bool {
			return gatewaySignaturePattern.MatchString(fl.Field().String())
		})
	}
}
