package domain

// Upstream resource schemas. Field names and JSON tags mirror the upstream
// platform's bulk-sync API exactly; these records are transient, rebuilt on
// every run and never persisted locally.

// Authentication methods accepted by the upstream user-account schema.
const (
	AuthMethodSSO      = "SSO"
	AuthMethodToken    = "TOKEN"
	AuthMethodPassword = "PASSWORD"
)

// Permission levels accepted by the upstream user-account schema.
const (
	PermissionBase   = "BASE"
	PermissionEditor = "EDITOR"
	PermissionAdmin  = "ADMIN"
)

// UserResource is one user-account record in the upstream schema.
type UserResource struct {
	DisplayName      string   `json:"displayName"`
	UniqueID         string   `json:"uniqueId"`
	FullName         string   `json:"fullName"`
	AccountName      string   `json:"accountName"`
	Email            string   `json:"email"`
	CreatedTimestamp string   `json:"createdTimestamp"`
	Status           string   `json:"status"`
	MFAEnabled       bool     `json:"mfaEnabled"`
	MFAMethods       []string `json:"mfaMethods"`
	ExternalURL      string   `json:"externalUrl"`
	AuthMethod       string   `json:"authMethod"`
	PermissionLevel  string   `json:"permissionLevel"`
}

// Application is one installed application on a device record.
type Application struct {
	Name     string `json:"name"`
	BundleID string `json:"bundleId"`
}

// BrowserExtension is one browser extension on a device record.
type BrowserExtension struct {
	Name        string `json:"name"`
	Browser     string `json:"browser"`
	ExtensionID string `json:"extensionId"`
}

// Drive is one storage volume on a device record.
type Drive struct {
	Name             string `json:"name"`
	Encrypted        bool   `json:"encrypted"`
	FileVaultEnabled bool   `json:"filevaultEnabled"`
}

// DeviceResource is one device record in the upstream schema.
type DeviceResource struct {
	DisplayName        string             `json:"displayName"`
	UniqueID           string             `json:"uniqueId"`
	ExternalURL        string             `json:"externalUrl"`
	CollectedTimestamp string             `json:"collectedTimestamp"`
	OSName             string             `json:"osName"`
	OSVersion          string             `json:"osVersion"`
	HardwareUUID       string             `json:"hardwareUuid"`
	SerialNumber       string             `json:"serialNumber"`
	Applications       []Application      `json:"applications"`
	BrowserExtensions  []BrowserExtension `json:"browserExtensions"`
	Drives             []Drive            `json:"drives"`
	Users              []string           `json:"users"`
	ScreenlockPolicies []string           `json:"systemScreenlockPolicies"`
	IsManaged          bool               `json:"isManaged"`
	AutoUpdatesEnabled bool               `json:"autoUpdatesEnabled"`
}
