// Package tasks owns the client-side task list and the paged view over it.
//
// # Store
//
// [Store] holds the canonical list for the signed-in user and is the only component that mutates
// it. Each operation validates locally, calls [services.TaskService] once, and reconciles the
// list when the call settles:
//
//  1. [Store.Refresh] : replace the list with the server's
//  2. [Store.Add] : reject empty or case-insensitively duplicate text, create, append
//  3. [Store.Update] : reject unknown IDs, empty or duplicate text, update, replace text in place
//  4. [Store.Remove] : delete, remove by ID
//
// Every outcome is reported to a [Notifier] as a Success or Error message. Failures never change
// the list and are never retried.
//
// # Concurrency
//
// Remote calls run without the store lock, so overlapping operations race and the last one to
// settle wins. Reconciliation is by task ID, never by position. After [Store.Close], settled
// calls are discarded with [shared.ErrStoreClosed].
//
// # Pagination
//
// [Pager] windows the list into pages of [DefaultPageSize]. It subscribes to the store and clamps
// its page number down whenever the list shrinks, so removing the last task on the last page moves
// the view to the new last page.
package tasks
