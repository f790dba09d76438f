// Package repositories implements SQLite persistence for local dashboard state.
//
// Tables are created by the embedded migrations in the shared package; repositories assume
// [shared.RunMigrations] has been applied.
//
// Key Implementations:
//   - [PreferenceRepository] : key/value UI preferences, such as the selected download service
package repositories
