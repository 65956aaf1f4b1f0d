package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// Software source categories reported by the source instance.
const (
	softwareSourceApps       = "apps"
	softwareSourceChromeExt  = "chrome_extensions"
	softwareSourceFirefoxExt = "firefox_addons"
)

// osVersionRe strips a leading platform-name prefix from vendor-supplied
// version strings, e.g. "macOS 12.6.1" and "Mac OS X 10.15.7" both reduce
// to the bare version number.
var osVersionRe = regexp.MustCompile(`^\D+\s(.+)$`)

// ToUserResources maps source users into the upstream user-account schema.
// Pure function: identical input yields identical output.
//
// Every record is marked ACTIVE: removed users never appear in the source
// listing, and the upstream sync is a full replacement, so absence is the
// removal signal.
func ToUserResources(conn domain.Connection, users []domain.SourceUser) []domain.UserResource {
	resources := make([]domain.UserResource, 0, len(users))

	for _, user := range users {
		authMethod := domain.AuthMethodPassword
		mfaMethods := []string{"DISABLED"}
		switch {
		case user.SSOEnabled && !user.APIOnly:
			authMethod = domain.AuthMethodSSO
			mfaMethods = []string{}
		case user.APIOnly:
			authMethod = domain.AuthMethodToken
			mfaMethods = []string{"UNSUPPORTED"}
		}

		permission := domain.PermissionBase
		switch user.GlobalRole {
		case "admin":
			permission = domain.PermissionAdmin
		case "maintainer":
			permission = domain.PermissionEditor
		}

		resources = append(resources, domain.UserResource{
			DisplayName:      user.Name,
			UniqueID:         strconv.FormatUint(uint64(user.ID), 10),
			FullName:         user.Name,
			AccountName:      user.Name,
			Email:            user.Email,
			CreatedTimestamp: user.CreatedAt.UTC().Format(time.RFC3339),
			Status:           "ACTIVE",
			MFAEnabled:       false,
			MFAMethods:       mfaMethods,
			ExternalURL:      conn.SourceURL,
			AuthMethod:       authMethod,
			PermissionLevel:  permission,
		})
	}

	return resources
}

// ToDeviceResources maps enriched macOS hosts into the upstream device
// schema. Hosts on other platforms are skipped. Hosts with pending MDM
// enrollment are emitted as skeleton records with empty software and drive
// lists, keeping the upstream inventory count consistent with the source
// instance.
func ToDeviceResources(conn domain.Connection, hosts []domain.HostDetail) []domain.DeviceResource {
	resources := make([]domain.DeviceResource, 0, len(hosts))

	for i := range hosts {
		host := &hosts[i]
		if host.Platform != domain.PlatformMac {
			continue
		}

		hostID := strconv.FormatUint(uint64(host.ID), 10)
		device := domain.DeviceResource{
			DisplayName:        host.DisplayName,
			UniqueID:           hostID,
			ExternalURL:        conn.SourceURL + "/hosts/" + url.PathEscape(hostID),
			CollectedTimestamp: host.UpdatedAt.UTC().Format(time.RFC3339),
			OSName:             "macOS",
			OSVersion:          normalizeOSVersion(host.OSVersion),
			HardwareUUID:       host.UUID,
			SerialNumber:       host.HardwareSerial,
			Applications:       []domain.Application{},
			BrowserExtensions:  []domain.BrowserExtension{},
			Drives:             []domain.Drive{},
			Users:              []string{},
			ScreenlockPolicies: []string{},
			IsManaged:          host.Managed(),
			AutoUpdatesEnabled: false,
		}

		// Pending hosts carry no reliable detail yet: publish the
		// skeleton and move on.
		if host.PendingEnrollment() {
			resources = append(resources, device)
			continue
		}

		if host.DiskEncryptionEnabled != nil {
			device.Drives = append(device.Drives, domain.Drive{
				Name:             "Hard drive",
				Encrypted:        *host.DiskEncryptionEnabled,
				FileVaultEnabled: *host.DiskEncryptionEnabled,
			})
		}

		for _, software := range host.Software {
			switch software.Source {
			case softwareSourceChromeExt, softwareSourceFirefoxExt:
				extensionID := software.Name + " " + software.Version
				if software.ExtensionID != "" {
					extensionID = software.ExtensionID
				}
				device.BrowserExtensions = append(device.BrowserExtensions, domain.BrowserExtension{
					Name:        software.Name,
					Browser:     browserName(software.Source),
					ExtensionID: extensionID,
				})

			case softwareSourceApps:
				bundleID := software.BundleIdentifier
				if bundleID == "" {
					bundleID = " "
				}
				device.Applications = append(device.Applications, domain.Application{
					Name:     software.Name + " " + software.Version,
					BundleID: bundleID,
				})
			}
		}

		resources = append(resources, device)
	}

	return resources
}

// normalizeOSVersion reduces a vendor version string to the bare version
// number. Strings without a platform-name prefix pass through unchanged.
func normalizeOSVersion(v string) string {
	if m := osVersionRe.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

// browserName derives the upstream browser tag from the software source
// category, e.g. "chrome_extensions" -> "CHROME".
func browserName(source string) string {
	name, _, _ := strings.Cut(source, "_")
	return strings.ToUpper(name)
}
