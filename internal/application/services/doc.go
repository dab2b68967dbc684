// Package services provides the business logic layer.
//
// This package contains all service implementations that handle:
//   - Table and schema lifecycle (TableService, FieldService)
//   - Row CRUD against materialized collections with hook execution
//     (CollectionService, HookService)
//   - The per-request access decision (AccessService)
//   - Navigation menus (MenuService)
//   - Authentication and sessions (AuthService)
//   - Scheduled trash purging (RetentionService)
//
// All services follow clean architecture principles with dependency injection
// and are designed to be testable and maintainable.
package services
