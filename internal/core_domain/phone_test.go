package core_domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "ten digits", raw: "9495551234", want: "+19495551234"},
		{name: "formatted ten digits", raw: "(949) 555-1234", want: "+19495551234"},
		{name: "eleven digits leading one", raw: "19495551234", want: "+19495551234"},
		{name: "dotted eleven digits", raw: "1.949.555.1234", want: "+19495551234"},
		{name: "already e164", raw: "+19495551234", want: "+19495551234"},
		{name: "international plus", raw: "+44 20 7946 0958", want: "+442079460958"},
		{name: "surrounding whitespace", raw: "  949 555 1234 ", want: "+19495551234"},
		{name: "eleven digits not leading one", raw: "29495551234", wantErr: true},
		{name: "too short", raw: "555123", wantErr: true},
		{name: "letters", raw: "call-me-maybe", wantErr: true},
		{name: "plus with too few digits", raw: "+12345", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "twelve digits without plus", raw: "449495551234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeE164(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotANumber)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeE164_Idempotent(t *testing.T) {
	inputs := []string{"9495551234", "19495551234", "+19495551234", "+442079460958", "(714) 555-0000"}
	for _, raw := range inputs {
		first, err := NormalizeE164(raw)
		require.NoError(t, err)
		second, err := NormalizeE164(first)
		require.NoError(t, err)
		assert.Equal(t, first, second, "normalizing %q twice", raw)
	}
}

func TestNormalizeE164_TenDigitProperty(t *testing.T) {
	for _, d := range []string{"0000000000", "2125550100", "9999999999", "3105550199"} {
		got, err := NormalizeE164(d)
		require.NoError(t, err)
		assert.Equal(t, "+1"+d, got)

		got, err = NormalizeE164("1" + d)
		require.NoError(t, err)
		assert.Equal(t, "+1"+d, got)
	}
}
