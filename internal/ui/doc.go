// Package ui implements the interactive task view using bubbletea's Elm architecture.
//
// The view shows a title, a welcome line for the signed-in user, the current notification, an
// add-task field, the current page of tasks and a "Page X of Y" indicator.
//
// The [Model] implements Init/Update/View, receiving results through the [Msg] union. Store
// operations run as tea.Cmds off the update loop; the store reconciles the list when each call
// settles and the model only adjusts view state (clearing the add field, leaving edit mode,
// keeping the cursor in range). Notification changes arrive as [NotificationMsg] values sent by
// the caller from the notify.Center subscription.
//
// Keys: tab switches between the add field and the list; enter adds or saves; e edits the
// selected task; esc cancels an edit; d deletes; ←/→ page; r reloads; ctrl+x signs out; q quits.
package ui
