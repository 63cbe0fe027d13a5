package result

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
)

func TestEnvelope_OK(t *testing.T) {
	var nilEnv *Envelope
	assert.False(t, nilEnv.OK())
	assert.False(t, (&Envelope{Success: false, Response: "nope"}).OK())
	assert.False(t, (&Envelope{Success: true}).OK())
	assert.True(t, (&Envelope{Success: true, Response: "created"}).OK())
}

func TestOutcome_Message(t *testing.T) {
	o := Outcome{Envelope: &Envelope{Success: false, Response: "User already exists"}}
	assert.False(t, o.Succeeded())
	assert.Equal(t, "User already exists", o.Message())

	o = Outcome{Error: "Invalid fields"}
	assert.False(t, o.Succeeded())
	assert.Equal(t, "Invalid fields", o.Message())
}

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok([]string{"a"})
	assert.True(t, ok.IsOk())
	assert.Equal(t, []string{"a"}, ok.Value())
	assert.NoError(t, ok.Error())
	assert.Equal(t, apperr.KindUnknown, ok.Kind())

	bad := Err[int](apperr.Rejection("db down"))
	assert.False(t, bad.IsOk())
	v, err := bad.Unwrap()
	assert.Zero(t, v)
	assert.ErrorIs(t, err, apperr.ErrBackendRejection)
	assert.Equal(t, apperr.KindBackendRejection, bad.Kind())
}

func TestResult_ErrNilStillFails(t *testing.T) {
	r := Err[string](nil)
	assert.False(t, r.IsOk())
	assert.Error(t, r.Error())
}
