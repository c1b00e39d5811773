// Package category classifies service and container names into functional
// categories using an ordered pattern table.
package category

import (
	"regexp"
	"strings"

	"evalgo.org/serverdash/models"
)

const (
	// OtherID is the category assigned when no pattern matches.
	OtherID = "other"
	// OtherName is the label for OtherID and any unknown id.
	OtherName = "Other Services"
)

// Entry is one row of the classification table.
type Entry struct {
	ID          string
	Name        string
	Description string
	Patterns    []string
}

// Table is checked top to bottom and the first matching entry wins, so the
// order of rows is significant.
var Table = []Entry{
	{
		ID:          "core",
		Name:        "Core System",
		Description: "Essential system services",
		Patterns:    []string{"systemd-", "dbus", "cron", "anacron", "irqbalance", "kmod-"},
	},
	{
		ID:          "web",
		Name:        "Web Services",
		Description: "Web servers and related services",
		Patterns:    []string{"nginx", "apache2", "php", "httpd"},
	},
	{
		ID:          "database",
		Name:        "Databases",
		Description: "Database servers",
		Patterns:    []string{"mariadb", "mysql", "postgresql", "redis", "mongodb"},
	},
	{
		ID:          "network",
		Name:        "Networking",
		Description: "Network services",
		Patterns: []string{
			"NetworkManager", "network-", "networkd-", "ssh", "tailscale", "wpa_",
			"avahi-", "openvpn", "ModemManager", "netfilter-", "ubuntu-fan",
		},
	},
	{
		ID:          "security",
		Name:        "Security",
		Description: "Security and access control services",
		Patterns:    []string{"ufw", "apparmor", "audit", "fail2ban", "secureboot", "polkit", "selinux"},
	},
	{
		ID:          "storage",
		Name:        "Storage",
		Description: "Storage and filesystem services",
		Patterns:    []string{"zfs-", "udisks", "mount", "automount", "fstrim"},
	},
	{
		ID:          "container",
		Name:        "Container Runtime",
		Description: "Container and virtualization services",
		Patterns:    []string{"docker", "containerd", "lxc", "podman"},
	},
	{
		ID:          "hardware",
		Name:        "Hardware Management",
		Description: "Hardware and power management",
		Patterns:    []string{"power-", "upower", "acpi", "alsa-", "rtkit-", "bluetooth", "switcheroo-", "system76-power"},
	},
	{
		ID:          "package",
		Name:        "Package Management",
		Description: "Package management services",
		Patterns:    []string{"packagekit", "snapd", "apt-", "dpkg-", "unattended-upgrades"},
	},
	{
		ID:          "file_sharing",
		Name:        "File Sharing",
		Description: "File sharing services",
		Patterns:    []string{"smb", "nmb", "winbind", "vsftpd", "nfs-"},
	},
	{
		ID:          "printing",
		Name:        "Printing",
		Description: "Printing services",
		Patterns:    []string{"cups", "printer", "printing"},
	},
	{
		ID:          "mail",
		Name:        "Mail Services",
		Description: "Mail servers and related services",
		Patterns:    []string{"postfix", "exim", "sendmail", "dovecot"},
	},
	{
		ID:          "user_services",
		Name:        "User Services",
		Description: "User session services",
		Patterns:    []string{"user@", "user-runtime-dir@", "pm2-"},
	},
	{
		ID:          "system_apps",
		Name:        "System Applications",
		Description: "System applications and utilities",
		Patterns:    []string{"accounts-daemon", "colord", "kerneloops", "whoopsie", "apport", "plymouth"},
	},
}

var unitSuffix = regexp.MustCompile(`\.(service|socket)$`)

// Classify returns the id of the first category whose patterns occur in
// name, or OtherID.
func Classify(name string) string {
	normalized := strings.ToLower(unitSuffix.ReplaceAllString(name, ""))
	for _, entry := range Table {
		for _, pattern := range entry.Patterns {
			if strings.Contains(normalized, strings.ToLower(pattern)) {
				return entry.ID
			}
		}
	}
	return OtherID
}

// Name returns the display label of a category id.
func Name(id string) string {
	for _, entry := range Table {
		if entry.ID == id {
			return entry.Name
		}
	}
	return OtherName
}

// Lookup classifies name and returns the resulting category.
func Lookup(name string) models.Category {
	id := Classify(name)
	return models.Category{ID: id, Name: Name(id)}
}
