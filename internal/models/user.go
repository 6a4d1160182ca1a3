package models

import (
	"time"
)

const (
	PreferencesVersion = 1
	FallbackCurrency   = "INR"
)

type User struct {
	ID           string      `firestore:"id" bson:"_id" json:"id"`
	Email        string      `firestore:"email" bson:"email" json:"email"`
	Name         string      `firestore:"name" bson:"name" json:"name"`
	PasswordHash string      `firestore:"passwordHash" bson:"passwordHash" json:"-"`
	Photo        string      `firestore:"photo,omitempty" bson:"photo,omitempty" json:"photo,omitempty"`
	Preferences  Preferences `firestore:"preferences" bson:"preferences" json:"preferences"`
	CreatedAt    time.Time   `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}

type Preferences struct {
	Version               int    `firestore:"version" bson:"version" json:"version"`
	Theme                 string `firestore:"theme" bson:"theme" json:"theme"`
	DefaultCurrency       string `firestore:"defaultCurrency" bson:"defaultCurrency" json:"defaultCurrency"`
	Notifications         bool   `firestore:"notifications" bson:"notifications" json:"notifications"`
	EmailNotifications    bool   `firestore:"emailNotifications" bson:"emailNotifications" json:"emailNotifications"`
	SMSNotifications      bool   `firestore:"smsNotifications" bson:"smsNotifications" json:"smsNotifications"`
	PushNotifications     bool   `firestore:"pushNotifications" bson:"pushNotifications" json:"pushNotifications"`
	NotificationFrequency string `firestore:"notificationFrequency" bson:"notificationFrequency" json:"notificationFrequency"`
	DataSharing           bool   `firestore:"dataSharing" bson:"dataSharing" json:"dataSharing"`
	TwoFactor             bool   `firestore:"twoFactor" bson:"twoFactor" json:"twoFactor"`
}

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Version:               PreferencesVersion,
		Theme:                 "light",
		DefaultCurrency:       "USD",
		Notifications:         true,
		EmailNotifications:    true,
		NotificationFrequency: "immediate",
	}
}

// Currency is the currency insights are computed in.
func (p Preferences) Currency() string {
	if p.DefaultCurrency == "" {
		return FallbackCurrency
	}
	return p.DefaultCurrency
}
