// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no GORM tags; each model converts to and from its
// domain type with ToDomain and FromDomain, and repositories only ever read
// or write models.
package models
