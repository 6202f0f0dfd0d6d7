// Package notify implements the transient status line shown after user actions.
//
// A [Center] holds at most one [Notification] at a time. Each new notification replaces the
// previous one and is cleared automatically after a TTL (3000ms by default), measured from the
// moment it was posted. Stale timers from replaced notifications never clear a newer message.
//
// Time is supplied through [Clock]; [ManualClock] lets tests step time explicitly.
package notify
