package domain

import "time"

// MDM enrollment statuses reported by the source instance.
const (
	EnrollmentOnAutomatic = "On (automatic)"
	EnrollmentOnManual    = "On (manual)"
	EnrollmentPending     = "Pending"
	EnrollmentOff         = "Off"
)

// PlatformMac is the only platform currently enriched and published.
const PlatformMac = "darwin"

// SourceUser is a user record read from a tenant's source instance.
type SourceUser struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	SSOEnabled bool      `json:"sso_enabled"`
	APIOnly    bool      `json:"api_only"`
	GlobalRole string    `json:"global_role"`
}

// SourceHost is a device summary read from the source instance's paginated
// host listing. Detail (software, disk encryption) lives on HostDetail.
type SourceHost struct {
	ID             uint      `json:"id"`
	DisplayName    string    `json:"display_name"`
	Platform       string    `json:"platform"`
	OSVersion      string    `json:"os_version"`
	UUID           string    `json:"uuid"`
	HardwareSerial string    `json:"hardware_serial"`
	UpdatedAt      time.Time `json:"updated_at"`
	MDM            *HostMDM  `json:"mdm,omitempty"`
}

// HostMDM is the MDM enrollment state of a host.
type HostMDM struct {
	EnrollmentStatus string `json:"enrollment_status"`
}

// EnrollmentStatus returns the host's MDM enrollment status, or "" when
// the host reports no MDM data.
func (h *SourceHost) EnrollmentStatus() string {
	if h.MDM == nil {
		return ""
	}
	return h.MDM.EnrollmentStatus
}

// PendingEnrollment reports whether the host's MDM enrollment is still in
// the transient pending state. Pending hosts are published as skeleton
// records and never enriched: the source instance cannot supply reliable
// vitals for them yet.
func (h *SourceHost) PendingEnrollment() bool {
	return h.EnrollmentStatus() == EnrollmentPending
}

// Managed reports whether the host is fully enrolled in MDM.
func (h *SourceHost) Managed() bool {
	s := h.EnrollmentStatus()
	return s == EnrollmentOnAutomatic || s == EnrollmentOnManual
}

// SourceSoftware is one installed-software entry from host detail.
type SourceSoftware struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	Source           string `json:"source"`
	ExtensionID      string `json:"extension_id,omitempty"`
	BundleIdentifier string `json:"bundle_identifier,omitempty"`
}

// HostDetail is a host enriched with the per-device detail endpoint's data.
// For hosts with pending enrollment the detail fields stay empty.
type HostDetail struct {
	SourceHost

	// DiskEncryptionEnabled is nil when the source instance has not yet
	// reported encryption state for this host.
	DiskEncryptionEnabled *bool            `json:"disk_encryption_enabled"`
	Software              []SourceSoftware `json:"software"`
}
