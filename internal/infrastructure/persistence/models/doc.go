// Package models contains GORM persistence models that map to database tables.
// Models are kept apart from domain entities so the domain layer stays free
// of ORM tags; each model carries ToDomain and FromDomain mappers.
package models
