package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aloepure/storefront/internal/domain"
)

// productInfo is the fixed order description the provider displays and
// signs. It participates in the request hash, so callbacks echo it back.
const productInfo = "AloePure Order"

// InstantTransferProvider builds a hash-signed redirect to the transfer
// rail's hosted payment page. Amounts are decimal major units with two
// fraction digits; there is no cents conversion on this rail.
type InstantTransferProvider struct {
	merchantKey string
	salt        string
	paymentURL  string
	successURL  string
	failureURL  string
	now         func() time.Time
}

func NewInstantTransferProvider(merchantKey, salt, paymentURL, successURL, failureURL string) *InstantTransferProvider {
	return &InstantTransferProvider{
		merchantKey: merchantKey,
		salt:        salt,
		paymentURL:  paymentURL,
		successURL:  successURL,
		failureURL:  failureURL,
		now:         time.Now,
	}
}

func (p *InstantTransferProvider) Initiate(ctx context.Context, details domain.CheckoutDetails, items []domain.CartItem) (RedirectTarget, error) {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	amount := strconv.FormatFloat(total, 'f', 2, 64)

	txnid := p.newTransactionID()
	hash := RequestHash(p.merchantKey, txnid, amount, productInfo, details.FirstName, details.Email, p.salt)

	params := url.Values{}
	params.Set("key", p.merchantKey)
	params.Set("txnid", txnid)
	params.Set("amount", amount)
	params.Set("productinfo", productInfo)
	params.Set("firstname", details.FirstName)
	params.Set("email", details.Email)
	params.Set("phone", details.Phone)
	params.Set("surl", p.successURL)
	params.Set("furl", p.failureURL)
	params.Set("hash", hash)
	params.Set("service_provider", "payu_paisa")
	params.Set("payment_type", "UPI")

	return RedirectTarget{
		URL:       p.paymentURL + "?" + params.Encode(),
		SessionID: txnid,
	}, nil
}

// newTransactionID is unique per attempt: a session is never reused across
// retries, so every initiation gets a fresh id.
func (p *InstantTransferProvider) newTransactionID() string {
	return fmt.Sprintf("txn_%d_%s", p.now().UnixNano(), uuid.New().String()[:8])
}

// RequestHash signs the outbound payload. The field order and the eleven
// empty padding fields between email and salt are dictated by the provider
// contract and must be reproduced byte for byte.
func RequestHash(key, txnid, amount, productinfo, firstname, email, salt string) string {
	payload := strings.Join([]string{key, txnid, amount, productinfo, firstname, email}, "|") +
		"|||||||||||" + salt
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// ResponseHash is the provider's reversed-order signature on inbound
// callbacks, with the salt leading and the field order mirrored.
func ResponseHash(salt, status, email, firstname, productinfo, amount, txnid, key string) string {
	payload := salt + "|" + status + "|||||||||||" +
		strings.Join([]string{email, firstname, productinfo, amount, txnid, key}, "|")
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:])
}
