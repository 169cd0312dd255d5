// Package database opens the relational store through gorm and exposes it
// as a lifecycle component.
//
// sqlite is the default driver; postgres is selected with
// database.driver = "postgres". Start applies the embedded migrations from
// the migration subpackage unless database.migrate is false.
//
// Every connection writes UTC timestamps and translates driver errors, so
// unique-constraint violations surface as gorm.ErrDuplicatedKey:
//
//	if database.IsDuplicateError(err) { ... }
package database
