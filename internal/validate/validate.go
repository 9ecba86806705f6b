// Package validate normalizes and rejects malformed guest submissions
// before they reach the storage layer.
package validate

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sandnico/rsvp-service/internal/domain"
)

const (
	MaxNameLen    = 100
	MaxMessageLen = 500
)

var (
	nameAllowed = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-'.]+$`)

	scriptRe  = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	jsProtoRe = regexp.MustCompile(`(?i)javascript:`)
	dataURLRe = regexp.MustCompile(`(?i)data:[^;]*;base64,`)
)

// Sanitize strips script blocks, HTML tags and script-like protocols
// outright. These are short plain-text fields, so removal beats
// escaping: escaped text would double-escape when redisplayed.
func Sanitize(input string) string {
	s := scriptRe.ReplaceAllString(input, "")
	s = jsProtoRe.ReplaceAllString(s, "")
	s = dataURLRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Submission validates and sanitizes a raw confirmation. All field
// problems are collected into one ValidationError for UI display.
func Submission(req domain.ConfirmationReq) (domain.ValidatedGuest, error) {
	var fields []domain.FieldError

	name := norm.NFC.String(strings.TrimSpace(req.Name))
	switch {
	case name == "":
		fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
	case len([]rune(name)) > MaxNameLen:
		fields = append(fields, domain.FieldError{Field: "name", Message: "name must be at most 100 characters"})
	case !nameAllowed.MatchString(name):
		fields = append(fields, domain.FieldError{Field: "name", Message: "name contains unsupported characters"})
	}

	if req.Attending == nil {
		fields = append(fields, domain.FieldError{Field: "attending", Message: "attendance must be confirmed"})
	}

	message := strings.TrimSpace(req.Message)
	if len([]rune(message)) > MaxMessageLen {
		fields = append(fields, domain.FieldError{Field: "message", Message: "message must be at most 500 characters"})
	}

	if len(fields) > 0 {
		return domain.ValidatedGuest{}, &domain.ValidationError{Fields: fields}
	}

	v := domain.ValidatedGuest{
		Name:      Sanitize(name),
		Attending: *req.Attending,
	}
	if m := Sanitize(message); m != "" {
		v.Message = &m
	}
	return v, nil
}

// Patch validates the fields present in a partial admin update, applying
// the same rules and sanitization as a full submission.
func Patch(p *domain.GuestPatch) error {
	var fields []domain.FieldError

	if p.Name != nil {
		name := norm.NFC.String(strings.TrimSpace(*p.Name))
		switch {
		case name == "":
			fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
		case len([]rune(name)) > MaxNameLen:
			fields = append(fields, domain.FieldError{Field: "name", Message: "name must be at most 100 characters"})
		case !nameAllowed.MatchString(name):
			fields = append(fields, domain.FieldError{Field: "name", Message: "name contains unsupported characters"})
		default:
			name = Sanitize(name)
			p.Name = &name
		}
	}

	if p.Message != nil {
		message := strings.TrimSpace(*p.Message)
		if len([]rune(message)) > MaxMessageLen {
			fields = append(fields, domain.FieldError{Field: "message", Message: "message must be at most 500 characters"})
		} else {
			message = Sanitize(message)
			p.Message = &message
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
