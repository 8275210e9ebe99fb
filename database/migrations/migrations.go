// Package migrations holds the schema migrations. Importing the package
// registers them; the CLI runs them:
//
//	bookhive migrate
//	bookhive migrate:rollback
//	bookhive migrate:status
package migrations
