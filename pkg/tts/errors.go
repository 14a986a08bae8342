package tts

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

var (
	// ErrTransient marks an overload or rate-limit failure worth retrying.
	ErrTransient = errors.New("speech service temporarily unavailable")
	// ErrInvalidCredential marks a rejected or missing API credential.
	ErrInvalidCredential = errors.New("invalid API credential")
	// ErrMalformedResponse marks a response without audio.
	ErrMalformedResponse = errors.New("malformed synthesis response")
)

var (
	transientMarkers  = []string{"overload", "unavailable", "resource_exhausted"}
	credentialMarkers = []string{"api key not valid", "api_key_invalid", "unauthenticated", "permission_denied"}

	// Status codes found in error text only count as standalone words.
	transientCodes  = []string{"503", "429"}
	credentialCodes = []string{"401", "403"}
)

// Classify maps a provider error onto the failure taxonomy. Transient and
// credential failures are wrapped with ErrTransient or ErrInvalidCredential,
// anything else is returned unchanged and treated as fatal.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, ErrInvalidCredential) {
		return err
	}

	if status := httpStatus(err); status != 0 {
		switch status {
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrTransient, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
		}
	}

	msg := strings.ToLower(err.Error())
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if containsAny(msg, credentialMarkers) || hasWord(words, credentialCodes) {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if containsAny(msg, transientMarkers) || hasWord(words, transientCodes) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}

func containsAny(msg string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func hasWord(words, codes []string) bool {
	for _, w := range words {
		for _, c := range codes {
			if w == c {
				return true
			}
		}
	}
	return false
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsCredential reports whether err is a credential failure.
func IsCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}

// httpStatus extracts the response status from typed go-openai and genai
// errors. It returns 0 for anything else.
func httpStatus(err error) int {
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
