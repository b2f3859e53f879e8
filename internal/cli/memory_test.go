package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probekit/probekit/pkg/errors"
)

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "8", want: 8},
		{input: "16", want: 16},
		{input: "32", want: 32},
		{input: "64", want: 64},
		{input: "24", wantErr: true},
		{input: "eight", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseWidth(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
