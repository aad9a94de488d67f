package checkout

import (
	"regexp"
	"strings"

	"github.com/aloepure/storefront/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Validate checks the checkout form and returns field-level errors keyed
// by field name. An empty map means the form is valid.
func Validate(details domain.CheckoutDetails) map[string]string {
	errs := make(map[string]string)

	require(errs, "first_name", details.FirstName, "first name is required")
	require(errs, "last_name", details.LastName, "last name is required")

	switch {
	case strings.TrimSpace(details.Email) == "":
		errs["email"] = "email is required"
	case !emailPattern.MatchString(details.Email):
		errs["email"] = "invalid email address"
	}

	switch {
	case strings.TrimSpace(details.Phone) == "":
		errs["phone"] = "phone number is required"
	case !phonePattern.MatchString(details.Phone):
		errs["phone"] = "invalid phone number"
	}

	require(errs, "address", details.Billing.Address, "address is required")
	require(errs, "city", details.Billing.City, "city is required")
	require(errs, "postal_code", details.Billing.PostalCode, "postal code is required")
	require(errs, "country", details.Billing.Country, "country is required")

	if !details.SameAsBilling {
		if details.Shipping == nil {
			errs["shipping"] = "shipping address is required"
		} else {
			require(errs, "shipping_address", details.Shipping.Address, "shipping address is required")
			require(errs, "shipping_city", details.Shipping.City, "shipping city is required")
			require(errs, "shipping_postal_code", details.Shipping.PostalCode, "shipping postal code is required")
			require(errs, "shipping_country", details.Shipping.Country, "shipping country is required")
		}
	}

	switch details.PaymentMethod {
	case domain.PaymentMethodCard, domain.PaymentMethodInstantTransfer:
	default:
		errs["payment_method"] = "payment method must be card or instant_transfer"
	}

	return errs
}

func require(errs map[string]string, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}
