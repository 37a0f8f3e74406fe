// Package store provides the single-table DynamoDB data access layer for
// Teamplane workspaces.
//
// All entities of a workspace (tasks, tickets, user profiles, sprints) live
// in one table, isolated per tenant by a domain string derived from the
// user's email domain. The layout is:
//
//   - PK = DOMAIN#{domain}#{ENTITY}#{id}, SK = "META" — point lookups
//   - GSI1PK = DOMAIN#{domain}#TYPE#{ENTITY}, GSI1SK = createdAt — per-type
//     listing ordered by creation time
//   - GSI2PK = DOMAIN#{domain}, GSI2SK = {ENTITY}#{createdAt} — whole-domain
//     listing across entity types
//
// Every item carries an envelope (entityType, domain, createdAt, updatedAt,
// version) alongside the full entity payload under "data".
//
// # Operations
//
// Each entity family exposes the same surface: List, Get, Create, Update,
// Delete. Get returns (nil, nil) when the entity does not exist; Update,
// AddActivity and the link operations return [ErrNotFound] instead. Updates
// are shallow merges: a field present in the patch replaces the stored field
// wholesale, including slices such as Task.LinkedTasks.
//
// Tasks additionally keep an append-only activity log. UpdateTask diffs the
// patch against the stored task and records one activity per real change to
// status, assignedTo, hoursSpent or hoursExpected. LinkTasks and UnlinkTasks
// are two sequential writes (an update plus an activity append) and are not
// atomic.
//
// # Concurrency
//
// Every read-modify-write is guarded by a conditional expression on the
// envelope version and fails with [ErrConcurrentModification] when the item
// changed underneath the caller. Creates fail if the key already exists.
// Deletes are unconditional and idempotent. The duplicate-email check on
// user creation is a read followed by a write; concurrent creates of the
// same email can still both slip through.
//
// # Errors
//
//   - [ErrNotFound] - mutation target does not exist
//   - [ErrDuplicateEmail] - another profile in the domain has the email
//   - [ErrConcurrentModification] - version guard failed
//
// All other DynamoDB errors propagate unchanged; the store performs no
// retries or backoff.
package store
