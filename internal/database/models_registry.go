package database

import "teampot/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Scope{},
		&models.ScopeRole{},
		&models.ScopePostPermission{},
		&models.Post{},
		&models.Invitation{},
		&models.Subscription{},
		&models.SubscriptionScope{},
	}
}
