package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/internal/validate"
)

func boolPtr(b bool) *bool { return &b }

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	names := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestSubmissionValid(t *testing.T) {
	v, err := validate.Submission(domain.ConfirmationReq{
		Name:      "  Alice Martin  ",
		Attending: boolPtr(true),
		Message:   "See you there!",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice Martin", v.Name)
	assert.True(t, v.Attending)
	require.NotNil(t, v.Message)
	assert.Equal(t, "See you there!", *v.Message)
}

func TestSubmissionAccentedName(t *testing.T) {
	v, err := validate.Submission(domain.ConfirmationReq{
		Name:      "Éléonore Muñoz-d'Árcy Jr.",
		Attending: boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, "Éléonore Muñoz-d'Árcy Jr.", v.Name)
}

func TestSubmissionNameBoundaries(t *testing.T) {
	hundred := strings.Repeat("a", 100)
	v, err := validate.Submission(domain.ConfirmationReq{Name: hundred, Attending: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, hundred, v.Name)

	_, err = validate.Submission(domain.ConfirmationReq{Name: strings.Repeat("a", 101), Attending: boolPtr(true)})
	assert.Contains(t, fieldsOf(t, err), "name")
}

func TestSubmissionNameCharset(t *testing.T) {
	for _, name := range []string{"Alice123", "alice@example.com", "Bob <b>bold</b>", "Eve; DROP TABLE guests"} {
		_, err := validate.Submission(domain.ConfirmationReq{Name: name, Attending: boolPtr(true)})
		assert.Contains(t, fieldsOf(t, err), "name", "name %q should be rejected", name)
	}
}

func TestSubmissionAttendanceRequired(t *testing.T) {
	// nil is only legal as the pre-submission UI state.
	_, err := validate.Submission(domain.ConfirmationReq{Name: "Alice Martin"})
	assert.Contains(t, fieldsOf(t, err), "attending")
}

func TestSubmissionCollectsAllFieldErrors(t *testing.T) {
	_, err := validate.Submission(domain.ConfirmationReq{
		Name:    "",
		Message: strings.Repeat("m", 501),
	})

	names := fieldsOf(t, err)
	assert.ElementsMatch(t, []string{"name", "attending", "message"}, names)
}

func TestSubmissionMessageBoundaries(t *testing.T) {
	v, err := validate.Submission(domain.ConfirmationReq{
		Name:      "Alice Martin",
		Attending: boolPtr(true),
		Message:   strings.Repeat("m", 500),
	})
	require.NoError(t, err)
	require.NotNil(t, v.Message)
	assert.Len(t, *v.Message, 500)

	_, err = validate.Submission(domain.ConfirmationReq{
		Name:      "Alice Martin",
		Attending: boolPtr(true),
		Message:   strings.Repeat("m", 501),
	})
	assert.Contains(t, fieldsOf(t, err), "message")
}

func TestSubmissionEmptyMessageBecomesNil(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t "} {
		v, err := validate.Submission(domain.ConfirmationReq{
			Name:      "Alice Martin",
			Attending: boolPtr(true),
			Message:   msg,
		})
		require.NoError(t, err)
		assert.Nil(t, v.Message, "message %q should become nil", msg)
	}
}

func TestSanitizeStripsMarkup(t *testing.T) {
	cases := map[string]string{
		"<script>alert(1)</script>Hello":      "Hello",
		"Hello <b>world</b>":                  "Hello world",
		"javascript:alert(1)":                 "alert(1)",
		"look data:text/html;base64,deadbeef": "look deadbeef",
		"plain text stays":                    "plain text stays",
	}
	for input, want := range cases {
		assert.Equal(t, want, validate.Sanitize(input), "input %q", input)
	}
}

func TestSubmissionSanitizesMessage(t *testing.T) {
	v, err := validate.Submission(domain.ConfirmationReq{
		Name:      "Alice Martin",
		Attending: boolPtr(true),
		Message:   "congrats <script>steal()</script>to you <i>both</i>",
	})

	require.NoError(t, err)
	require.NotNil(t, v.Message)
	assert.Equal(t, "congrats to you both", *v.Message)
}

func TestSubmissionMessageOnlyMarkupBecomesNil(t *testing.T) {
	v, err := validate.Submission(domain.ConfirmationReq{
		Name:      "Alice Martin",
		Attending: boolPtr(true),
		Message:   "<script>x()</script>",
	})

	require.NoError(t, err)
	assert.Nil(t, v.Message)
}

func TestPatch(t *testing.T) {
	name := "  Bob Sinclair  "
	msg := " <b>hi</b> "
	p := domain.GuestPatch{Name: &name, Message: &msg}

	require.NoError(t, validate.Patch(&p))
	assert.Equal(t, "Bob Sinclair", *p.Name)
	assert.Equal(t, "hi", *p.Message)
}

func TestPatchRejectsBadFields(t *testing.T) {
	long := strings.Repeat("a", 101)
	p := domain.GuestPatch{Name: &long}
	err := validate.Patch(&p)
	assert.Contains(t, fieldsOf(t, err), "name")

	empty := "   "
	p = domain.GuestPatch{Message: &empty}
	require.NoError(t, validate.Patch(&p))
	assert.Equal(t, "", *p.Message)
}
