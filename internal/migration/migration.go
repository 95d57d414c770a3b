// Package migration keeps the schema usable out of the box for local
// and self-hosted environments: all tables are created automatically on
// startup.
package migration

import (
	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
	"gorm.io/gorm"
)

// Run migrates every persisted model.
func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&userdomain.User{},
		&integrationdomain.Integration{},
		&usagedomain.Entry{},
		&alertdomain.Alert{},
	)
}
