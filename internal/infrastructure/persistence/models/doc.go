// Package models contains the GORM persistence models. They are kept apart
// from the domain types so that the domain layer carries no ORM tags;
// repositories convert with ToDomain and the *FromDomain constructors.
package models
