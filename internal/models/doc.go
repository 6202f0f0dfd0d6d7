// Package models defines domain entities and persistence interfaces for taskly.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with external services
//   - [Task] : A single to-do item as served by the remote task service
//   - [TaskID] : Opaque server-assigned identifier (JSON number or string)
//   - [User] : Identity returned by the identity provider
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : A signed-in user session, persisted so sign-in survives restarts
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
