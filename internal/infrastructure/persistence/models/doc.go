// Package models holds the GORM table mappings. Domain types stay free of ORM
// tags; each model converts to and from its aggregate.
//
//   - base.go: columns shared by aggregate tables
//   - ledger.go: financial records, their transactions and investor carry-overs
//   - investor.go: investors and their property shares
package models
