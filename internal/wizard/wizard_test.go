package wizard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func completeDraft() map[string]string {
	return map[string]string{
		FieldName:        "Thandi Mokoena",
		FieldEmail:       "thandi@example.co.za",
		FieldPhone:       "082 555 0101",
		FieldProjectType: "New website",
		FieldBudget:      "R5,000 - R15,000",
		FieldTimeline:    "1 - 3 months",
	}
}

func ungated() Options {
	return Options{GateAdvance: false, ResetDelay: DefaultResetDelay}
}

func TestNew_StartsAtIdentity(t *testing.T) {
	w := New(DefaultOptions())
	assert.Equal(t, Identity, w.Step)
	assert.True(t, w.Draft.IsZero())
	assert.False(t, w.Submitted())
	assert.True(t, w.ResetAt().IsZero())
}

func TestNext_Saturates(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"ungated", ungated()},
		{"gated with complete draft", DefaultOptions()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.opts)
			require.NoError(t, w.Update(completeDraft()))

			for i := 0; i < 10; i++ {
				require.NoError(t, w.Next())
				assert.GreaterOrEqual(t, w.Step, FirstStep)
				assert.LessOrEqual(t, w.Step, LastStep)
			}
			assert.Equal(t, Scope, w.Step)
		})
	}
}

func TestBack_Saturates(t *testing.T) {
	w := New(ungated())
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Back())
	}
	assert.Equal(t, Identity, w.Step)

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	assert.Equal(t, Project, w.Step)
}

func TestStepStaysInRange_MixedSequence(t *testing.T) {
	w := New(ungated())
	moves := "NNBNNNBBBBNBNNNNB"
	for _, m := range moves {
		if m == 'N' {
			require.NoError(t, w.Next())
		} else {
			require.NoError(t, w.Back())
		}
		assert.True(t, w.Step >= FirstStep && w.Step <= LastStep, "step %d out of range", w.Step)
	}
}

func TestNext_GatedBlocksMissingFields(t *testing.T) {
	w := New(DefaultOptions())

	err := w.Next()
	var incomplete *IncompleteStepError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, Identity, incomplete.Step)
	assert.Equal(t, map[string]string{FieldName: "required", FieldEmail: "required"}, incomplete.Fields)
	assert.Equal(t, Identity, w.Step, "step must not change")
	assert.Equal(t, "identity step is incomplete (email: required, name: required)", err.Error())

	require.NoError(t, w.Update(map[string]string{FieldName: "Thandi", FieldEmail: "not-an-email"}))
	err = w.Next()
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "invalid email address", incomplete.Fields[FieldEmail])

	require.NoError(t, w.Update(map[string]string{FieldEmail: "thandi@example.co.za"}))
	require.NoError(t, w.Next())
	assert.Equal(t, Project, w.Step)

	err = w.Next()
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, Project, incomplete.Step)
}

func TestNext_UngatedIgnoresMissingFields(t *testing.T) {
	w := New(ungated())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, Scope, w.Step)
}

func TestUpdate(t *testing.T) {
	w := New(DefaultOptions())
	require.NoError(t, w.Update(map[string]string{
		FieldName: "  Sipho  ",
		"isAdmin": "true",
	}))
	assert.Equal(t, "Sipho", w.Draft.Name)
	assert.Equal(t, "", w.Draft.Get("isAdmin"))
}

func TestSubmit_OnlyFromFinalStep(t *testing.T) {
	w := New(DefaultOptions())
	require.NoError(t, w.Update(completeDraft()))

	_, err := w.Submit(t0)
	assert.ErrorIs(t, err, ErrNotFinalStep)
	assert.False(t, w.Submitted())
}

func TestSubmit_ReturnsDraft(t *testing.T) {
	w := New(DefaultOptions())
	require.NoError(t, w.Update(completeDraft()))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())

	draft, err := w.Submit(t0)
	require.NoError(t, err)
	assert.Equal(t, "Thandi Mokoena", draft.Name)
	assert.Equal(t, "New website", draft.ProjectType)
	assert.True(t, w.Submitted())
	assert.Equal(t, t0.Add(DefaultResetDelay), w.ResetAt())

	_, err = w.Submit(t0)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Next(), ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Back(), ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Update(map[string]string{FieldName: "x"}), ErrAlreadySubmitted)
}

func TestSubmit_GatedRevalidatesEarlierSteps(t *testing.T) {
	w := New(DefaultOptions())
	require.NoError(t, w.Update(completeDraft()))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())

	w.Draft.Email = ""
	_, err := w.Submit(t0)

	var incomplete *IncompleteStepError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, Identity, incomplete.Step)
	assert.Equal(t, Identity, w.Step, "wizard should return to the failing step")
	assert.False(t, w.Submitted())
}

func TestRefresh_ResetsAfterDelay(t *testing.T) {
	w := New(ungated())
	require.NoError(t, w.Update(completeDraft()))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	_, err := w.Submit(t0)
	require.NoError(t, err)

	assert.False(t, w.Refresh(t0.Add(DefaultResetDelay-time.Millisecond)))
	assert.True(t, w.Submitted())
	assert.Equal(t, "Thandi Mokoena", w.Draft.Name)

	assert.True(t, w.Refresh(t0.Add(DefaultResetDelay)))
	assert.Equal(t, Identity, w.Step)
	assert.True(t, w.Draft.IsZero())
	assert.False(t, w.Submitted())

	assert.False(t, w.Refresh(t0.Add(time.Hour)), "nothing left to reset")
}

func TestMarshal_RoundTripKeepsProgress(t *testing.T) {
	w := New(DefaultOptions())
	require.NoError(t, w.Update(completeDraft()))
	require.NoError(t, w.Next())

	data, err := w.Marshal()
	require.NoError(t, err)

	restored, err := Unmarshal(data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Project, restored.Step)
	assert.Equal(t, w.Draft, restored.Draft)
	assert.Equal(t, DefaultOptions(), restored.Options())
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantStep Step
		wantErr  bool
	}{
		{"empty session", "", Identity, false},
		{"step too high", `{"step":9}`, Scope, false},
		{"step too low", `{"step":-4}`, Identity, false},
		{"garbage", `{not json`, Identity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Unmarshal(tt.data, DefaultOptions())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, w)
			assert.Equal(t, tt.wantStep, w.Step)
		})
	}
}

func TestStepFields(t *testing.T) {
	var all []string
	for _, step := range Steps {
		all = append(all, StepFields(step)...)
	}
	assert.ElementsMatch(t, Fields, all)
	assert.True(t, Required(FieldEmail))
	assert.False(t, Required(FieldMessage))
}

func TestProblems_Email(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"bare address", "thandi@example.co.za", ""},
		{"no domain", "thandi", "invalid email address"},
		{"display name", "Thandi <thandi@example.co.za>", "invalid email address"},
		{"angle brackets only", "<thandi@example.co.za>", "invalid email address"},
		{"two addresses", "a@example.com, b@example.com", "invalid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{Name: "Thandi", Email: tt.email}
			assert.Equal(t, tt.want, d.Problems(Identity)[FieldEmail])
		})
	}
}

func TestProblems_TooLong(t *testing.T) {
	d := Draft{
		Budget:   "R5,000 - R15,000",
		Timeline: "Within a month",
		Message:  strings.Repeat("a", MaxLength(FieldMessage)),
	}
	assert.Empty(t, d.Problems(Scope), "a message at the limit is fine")

	d.Message += "é"
	assert.Equal(t, map[string]string{FieldMessage: "too long (max 1000 characters)"}, d.Problems(Scope))

	d = Draft{Name: strings.Repeat("ñ", MaxLength(FieldName)), Email: "thandi@example.co.za"}
	assert.Empty(t, d.Problems(Identity), "limits count characters, not bytes")
}

func TestMaxLength(t *testing.T) {
	for _, name := range Fields {
		assert.Positive(t, MaxLength(name), name)
	}
	assert.Zero(t, MaxLength("nope"))
}

func TestSubmit_UngatedStillEnforcesLength(t *testing.T) {
	w := New(ungated())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.NoError(t, w.Update(map[string]string{FieldMessage: strings.Repeat("x", 3500)}))

	_, err := w.Submit(t0)
	var incomplete *IncompleteStepError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, Scope, incomplete.Step)
	assert.Contains(t, incomplete.Fields[FieldMessage], "too long")
	assert.False(t, w.Submitted())

	require.NoError(t, w.Update(map[string]string{FieldMessage: "short"}))
	_, err = w.Submit(t0)
	assert.NoError(t, err, "missing fields are not checked without gating")
}
