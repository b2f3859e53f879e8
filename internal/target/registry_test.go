package target

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/pkg/errors"
)

func TestLoad(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, reg.All())
}

func TestLookup(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name       string
		chip       string
		wantVendor string
		wantFormat format.Kind
		wantErr    bool
	}{
		{name: "exact name", chip: "STM32F407VG", wantVendor: "STMicroelectronics"},
		{name: "case insensitive", chip: "stm32f407vg", wantVendor: "STMicroelectronics"},
		{name: "esp32 declares idf", chip: "ESP32-C3", wantVendor: "Espressif", wantFormat: format.Idf},
		{name: "rp2040 declares uf2", chip: "rp2040", wantVendor: "Raspberry Pi", wantFormat: format.Uf2},
		{name: "unknown chip", chip: "Z80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chip, err := reg.Lookup(tt.chip)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVendor, chip.Vendor)
			assert.Equal(t, tt.wantFormat, chip.DefaultFormat)
		})
	}
}

func TestAll_SortedByName(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	targets := reg.All()
	assert.True(t, sort.SliceIsSorted(targets, func(i, j int) bool {
		return targets[i].Name < targets[j].Name
	}))
}

func TestTargetsWithoutPreferenceHaveNoDefaultFormat(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	chip, err := reg.Lookup("nRF52840")
	require.NoError(t, err)

	// No declared preference; format resolution falls through to ELF.
	assert.Equal(t, format.Kind(""), chip.DefaultFormat)
}
