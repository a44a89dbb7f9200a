package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordValidation(t *testing.T) {
	tests := []struct {
		name     string
		recovery []string
		wantErr  bool
	}{
		{
			name:     "valid single step",
			recovery: []string{"Check the token"},
		},
		{
			name:     "valid multiple steps",
			recovery: []string{"Check the token", "Retry login"},
		},
		{
			name:     "empty list",
			recovery: nil,
			wantErr:  true,
		},
		{
			name:     "blank entry",
			recovery: []string{"Check the token", "   "},
			wantErr:  true,
		},
		{
			name:     "empty entry",
			recovery: []string{""},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecord(errors.New("boom"), tt.recovery)

			if tt.wantErr {
				require.Error(t, err)

				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Nil(t, rec)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.recovery, rec.Recovery())
			assert.False(t, rec.CreatedAt().IsZero())
		})
	}
}

func TestRecordTypeDerivation(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  string
	}{
		{
			name:  "tagged fault",
			cause: &ValidationError{Field: "x", Reason: "y"},
			want:  "ValidationError",
		},
		{
			name:  "opaque stdlib error",
			cause: errors.New("boom"),
			want:  "UnknownError",
		},
		{
			name:  "nil cause",
			cause: nil,
			want:  "UnknownError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecord(tt.cause, []string{"step"})
			require.NoError(t, err)

			assert.Equal(t, tt.want, rec.Type())
		})
	}
}

func TestRecordMessage(t *testing.T) {
	rec, err := NewRecord(nil, []string{"step"})
	require.NoError(t, err)
	assert.Equal(t, "unknown error", rec.Message())

	rec, err = NewRecord(errors.New("boom"), []string{"step"})
	require.NoError(t, err)
	assert.Equal(t, "boom", rec.Message())
}

func TestAddContext(t *testing.T) {
	rec, err := NewRecord(errors.New("boom"), []string{"step"})
	require.NoError(t, err)

	rec.AddContext("stage", "lookup")
	rec.AddContext("ignored", nil)
	rec.AddContext("stage", "persist") // overwrite

	ctx := rec.Context()
	assert.Equal(t, "persist", ctx["stage"])
	assert.NotContains(t, ctx, "ignored")
}

func TestRecoveryIsACopy(t *testing.T) {
	rec, err := NewRecord(errors.New("boom"), []string{"step one"})
	require.NoError(t, err)

	got := rec.Recovery()
	got[0] = "mutated"

	assert.Equal(t, []string{"step one"}, rec.Recovery())
}
