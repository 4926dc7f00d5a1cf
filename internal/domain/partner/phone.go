package partner

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used when a number carries no country prefix
const DefaultPhoneRegion = "PK"

// NormalizePhone parses a phone number for region and formats it as E.164.
// An empty input stays empty.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := libphonenumber.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", shared.NewDomainError("INVALID_PHONE", "Phone number cannot be parsed")
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
