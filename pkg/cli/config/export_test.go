package config

// NewPermissionsForTest creates a Permissions config for testing purposes
func NewPermissionsForTest(path string) *Permissions {
	return &Permissions{path: path}
}

// NewWhatsAppForTest creates a WhatsApp config for testing purposes
func NewWhatsAppForTest(appSecret, verifyToken string) *WhatsApp {
	return &WhatsApp{
		appSecret:   appSecret,
		verifyToken: verifyToken,
	}
}
