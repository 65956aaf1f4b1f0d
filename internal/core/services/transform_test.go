package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

var transformConn = domain.Connection{
	ID:        "conn-1",
	SourceURL: "https://devices.example.com",
}

func TestToUserResourcesAuthMethods(t *testing.T) {
	tests := []struct {
		name       string
		user       domain.SourceUser
		authMethod string
		mfaMethods []string
	}{
		{
			name:       "sso user",
			user:       domain.SourceUser{SSOEnabled: true},
			authMethod: domain.AuthMethodSSO,
			mfaMethods: []string{},
		},
		{
			name:       "api-only user",
			user:       domain.SourceUser{APIOnly: true},
			authMethod: domain.AuthMethodToken,
			mfaMethods: []string{"UNSUPPORTED"},
		},
		{
			name:       "api-only wins over sso",
			user:       domain.SourceUser{SSOEnabled: true, APIOnly: true},
			authMethod: domain.AuthMethodToken,
			mfaMethods: []string{"UNSUPPORTED"},
		},
		{
			name:       "password user",
			user:       domain.SourceUser{},
			authMethod: domain.AuthMethodPassword,
			mfaMethods: []string{"DISABLED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources := ToUserResources(transformConn, []domain.SourceUser{tt.user})
			require.Len(t, resources, 1)
			assert.Equal(t, tt.authMethod, resources[0].AuthMethod)
			assert.Equal(t, tt.mfaMethods, resources[0].MFAMethods)
			assert.False(t, resources[0].MFAEnabled)
		})
	}
}

func TestToUserResourcesPermissionLevels(t *testing.T) {
	tests := []struct {
		role       string
		permission string
	}{
		{role: "admin", permission: domain.PermissionAdmin},
		{role: "maintainer", permission: domain.PermissionEditor},
		{role: "observer", permission: domain.PermissionBase},
		{role: "", permission: domain.PermissionBase},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			resources := ToUserResources(transformConn, []domain.SourceUser{{GlobalRole: tt.role}})
			require.Len(t, resources, 1)
			assert.Equal(t, tt.permission, resources[0].PermissionLevel)
		})
	}
}

func TestToUserResourcesFields(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	users := []domain.SourceUser{{
		ID:        42,
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		CreatedAt: created,
	}}

	resources := ToUserResources(transformConn, users)
	require.Len(t, resources, 1)

	got := resources[0]
	assert.Equal(t, "42", got.UniqueID)
	assert.Equal(t, "Ada Lovelace", got.DisplayName)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, "Ada Lovelace", got.AccountName)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "2024-03-01T12:00:00Z", got.CreatedTimestamp)
	// Removed users never appear in the source listing, so every emitted
	// record is ACTIVE.
	assert.Equal(t, "ACTIVE", got.Status)
	assert.Equal(t, transformConn.SourceURL, got.ExternalURL)
}

func TestNormalizeOSVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "macOS 12.6.1", want: "12.6.1"},
		{in: "Mac OS X 10.15.7", want: "10.15.7"},
		{in: "14.1", want: "14.1"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeOSVersion(tt.in))
		})
	}
}

func TestToDeviceResourcesSoftwareClassification(t *testing.T) {
	encrypted := true
	hosts := []domain.HostDetail{{
		SourceHost: domain.SourceHost{
			ID:       7,
			Platform: domain.PlatformMac,
			MDM:      &domain.HostMDM{EnrollmentStatus: domain.EnrollmentOnManual},
		},
		DiskEncryptionEnabled: &encrypted,
		Software: []domain.SourceSoftware{
			{Name: "uBlock Origin", Version: "1.55", Source: "chrome_extensions"},
			{Name: "Tree Style Tab", Version: "4.0", Source: "firefox_addons", ExtensionID: "tst@piro"},
			{Name: "Slack", Version: "4.36", Source: "apps", BundleIdentifier: "com.tinyspeck.slackmacgap"},
			{Name: "Notes", Version: "1.0", Source: "apps"},
			{Name: "python", Version: "3.12", Source: "homebrew_packages"},
		},
	}}

	resources := ToDeviceResources(transformConn, hosts)
	require.Len(t, resources, 1)
	device := resources[0]

	require.Len(t, device.BrowserExtensions, 2)
	assert.Equal(t, "CHROME", device.BrowserExtensions[0].Browser)
	// No native extension ID: synthesise a stable one from name+version.
	assert.Equal(t, "uBlock Origin 1.55", device.BrowserExtensions[0].ExtensionID)
	assert.Equal(t, "FIREFOX", device.BrowserExtensions[1].Browser)
	assert.Equal(t, "tst@piro", device.BrowserExtensions[1].ExtensionID)

	require.Len(t, device.Applications, 2)
	assert.Equal(t, "Slack 4.36", device.Applications[0].Name)
	assert.Equal(t, "com.tinyspeck.slackmacgap", device.Applications[0].BundleID)
	assert.Equal(t, " ", device.Applications[1].BundleID)

	require.Len(t, device.Drives, 1)
	assert.Equal(t, "Hard drive", device.Drives[0].Name)
	assert.True(t, device.Drives[0].Encrypted)
	assert.True(t, device.Drives[0].FileVaultEnabled)

	assert.True(t, device.IsManaged)
}

func TestToDeviceResourcesPendingHostIsSkeleton(t *testing.T) {
	encrypted := true
	hosts := []domain.HostDetail{{
		SourceHost: domain.SourceHost{
			ID:             9,
			DisplayName:    "pending-mac",
			Platform:       domain.PlatformMac,
			OSVersion:      "macOS 14.2",
			UUID:           "uuid-9",
			HardwareSerial: "C02XYZ",
			UpdatedAt:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			MDM:            &domain.HostMDM{EnrollmentStatus: domain.EnrollmentPending},
		},
		// Even if detail fields are somehow populated, a pending host
		// must come out as a skeleton.
		DiskEncryptionEnabled: &encrypted,
		Software:              []domain.SourceSoftware{{Name: "Slack", Version: "4.36", Source: "apps"}},
	}}

	resources := ToDeviceResources(transformConn, hosts)
	require.Len(t, resources, 1)
	device := resources[0]

	assert.Equal(t, "pending-mac", device.DisplayName)
	assert.Equal(t, "9", device.UniqueID)
	assert.Equal(t, "https://devices.example.com/hosts/9", device.ExternalURL)
	assert.Equal(t, "14.2", device.OSVersion)
	assert.Empty(t, device.Applications)
	assert.Empty(t, device.BrowserExtensions)
	assert.Empty(t, device.Drives)
	assert.False(t, device.IsManaged)
}

func TestToDeviceResourcesSkipsOtherPlatforms(t *testing.T) {
	hosts := []domain.HostDetail{
		{SourceHost: domain.SourceHost{ID: 1, Platform: "windows"}},
		{SourceHost: domain.SourceHost{ID: 2, Platform: domain.PlatformMac}},
		{SourceHost: domain.SourceHost{ID: 3, Platform: "ubuntu"}},
	}

	resources := ToDeviceResources(transformConn, hosts)
	require.Len(t, resources, 1)
	assert.Equal(t, "2", resources[0].UniqueID)
}

func TestToDeviceResourcesNoDriveWithoutEncryptionState(t *testing.T) {
	hosts := []domain.HostDetail{{
		SourceHost: domain.SourceHost{ID: 4, Platform: domain.PlatformMac},
	}}

	resources := ToDeviceResources(transformConn, hosts)
	require.Len(t, resources, 1)
	assert.Empty(t, resources[0].Drives)
}

func TestTransformIsDeterministic(t *testing.T) {
	encrypted := false
	users := []domain.SourceUser{
		{ID: 1, Name: "a", GlobalRole: "admin", SSOEnabled: true},
		{ID: 2, Name: "b", APIOnly: true},
	}
	hosts := []domain.HostDetail{{
		SourceHost: domain.SourceHost{
			ID:        5,
			Platform:  domain.PlatformMac,
			OSVersion: "macOS 13.0",
			UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		DiskEncryptionEnabled: &encrypted,
		Software:              []domain.SourceSoftware{{Name: "Slack", Version: "4.36", Source: "apps"}},
	}}

	firstUsers, err := json.Marshal(ToUserResources(transformConn, users))
	require.NoError(t, err)
	secondUsers, err := json.Marshal(ToUserResources(transformConn, users))
	require.NoError(t, err)
	assert.Equal(t, firstUsers, secondUsers)

	firstHosts, err := json.Marshal(ToDeviceResources(transformConn, hosts))
	require.NoError(t, err)
	secondHosts, err := json.Marshal(ToDeviceResources(transformConn, hosts))
	require.NoError(t, err)
	assert.Equal(t, firstHosts, secondHosts)
}

func TestTransformEmptySlicesMarshalAsArrays(t *testing.T) {
	hosts := []domain.HostDetail{{
		SourceHost: domain.SourceHost{ID: 6, Platform: domain.PlatformMac},
	}}

	payload, err := json.Marshal(ToDeviceResources(transformConn, hosts))
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"applications":[]`)
	assert.Contains(t, string(payload), `"browserExtensions":[]`)
	assert.Contains(t, string(payload), `"drives":[]`)
}
