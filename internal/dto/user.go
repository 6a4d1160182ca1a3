package dto

type UpdateUserRequest struct {
	Name        *string            `json:"name,omitempty"`
	Email       *string            `json:"email,omitempty"`
	Preferences *PreferencesUpdate `json:"preferences,omitempty"`
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	Theme                 *string `json:"theme,omitempty"`
	DefaultCurrency       *string `json:"defaultCurrency,omitempty"`
	Notifications         *bool   `json:"notifications,omitempty"`
	EmailNotifications    *bool   `json:"emailNotifications,omitempty"`
	SMSNotifications      *bool   `json:"smsNotifications,omitempty"`
	PushNotifications     *bool   `json:"pushNotifications,omitempty"`
	NotificationFrequency *string `json:"notificationFrequency,omitempty"`
	DataSharing           *bool   `json:"dataSharing,omitempty"`
	TwoFactor             *bool   `json:"twoFactor,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
