package version

import (
	"testing"

	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			configVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "engine patch higher",
			engineVersion: "1.2.1",
			configVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "config patch higher",
			engineVersion: "1.2.0",
			configVersion: "1.2.5",
			expectError:   false,
		},
		{
			name:          "engine minor higher",
			engineVersion: "1.3.0",
			configVersion: "1.2.0",
			expectError:   true,
			errorContains: "minor version mismatch",
		},
		{
			name:          "engine minor lower",
			engineVersion: "1.1.0",
			configVersion: "1.2.0",
			expectError:   true,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major version differs",
			engineVersion: "2.0.0",
			configVersion: "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "engine is main",
			engineVersion: "main",
			configVersion: "1.3.0",
			expectError:   false,
		},
		{
			name:          "config is main",
			engineVersion: "1.2.0",
			configVersion: "main",
			expectError:   false,
		},
		{
			name:          "v prefix on both",
			engineVersion: "v1.2.0",
			configVersion: "v1.2.3",
			expectError:   false,
		},
		{
			name:          "prerelease version",
			engineVersion: "1.2.0-alpha",
			configVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			configVersion: "1.2.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
		{
			name:          "empty config version",
			engineVersion: "1.2.0",
			configVersion: "",
			expectError:   true,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersionCompatibility(tt.engineVersion, tt.configVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidVersion, errors.GetCode(err))
				assert.True(t, errors.IsConfigurationError(err))
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
