package config

const (
	// MaxOrganizationNameLength is the maximum length for organization names.
	// The root folder key is "root-" + name, so this leaves room in VARCHAR(255).
	MaxOrganizationNameLength = 200

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxContentTypeLength bounds the MIME type stored with a file.
	MaxContentTypeLength = 255

	// InvitationCodeLength is the number of characters in an invitation code.
	InvitationCodeLength = 6

	// InvitationCodeAlphabet is the set invitation code characters are drawn from.
	InvitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MaxInvitationCodeAttempts bounds retries after a code collision.
	MaxInvitationCodeAttempts = 5
)
