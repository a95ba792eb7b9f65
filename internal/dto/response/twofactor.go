package response

// TwoFactorSetupResponse carries everything the client needs to enroll
// an authenticator app. The secret is only ever shown here.
type TwoFactorSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	DeviceName string `json:"device_name"`
}

// TwoFactorConfirmResponse includes plaintext backup codes exactly once.
type TwoFactorConfirmResponse struct {
	Confirmed   bool     `json:"confirmed"`
	BackupCodes []string `json:"backup_codes"`
}

type TwoFactorStatusResponse struct {
	Enabled              bool   `json:"enabled"`
	DeviceName           string `json:"device_name,omitempty"`
	BackupCodesRemaining int64  `json:"backup_codes_remaining"`
}
