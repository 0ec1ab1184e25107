package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"eventattendance/internal/domain"
)

const (
	ticketSuffixLength  = 12
	barcodeSuffixLength = 10
	shortIDLength       = 8
)

var codeAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func randomCode(n int) (string, error) {
	b := make([]rune, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// shortID returns the first hex characters of a UUID, upper-cased, so codes stay traceable.
func shortID(id string) string {
	s := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(s) > shortIDLength {
		s = s[:shortIDLength]
	}
	return s
}

// newTicketCode returns EVT{event}U{user}-{random}.
func newTicketCode(eventID, userID string) (string, error) {
	suffix, err := randomCode(ticketSuffixLength)
	if err != nil {
		return "", err
	}
	return "EVT" + shortID(eventID) + "U" + shortID(userID) + "-" + suffix, nil
}

// newBarcodeValue returns "{label} - BRCD - {random}", unique per visit under one static label.
func newBarcodeValue(label string) (string, error) {
	suffix, err := randomCode(barcodeSuffixLength)
	if err != nil {
		return "", err
	}
	return label + " - BRCD - " + suffix, nil
}

// isBusinessError reports whether err is one of the domain error kinds, which are
// returned to callers unwrapped so their message stays user facing.
func isBusinessError(err error) bool {
	for _, kind := range []error{domain.ErrNotFound, domain.ErrForbidden, domain.ErrInvalidInput, domain.ErrConflict, domain.ErrInvalidState} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
