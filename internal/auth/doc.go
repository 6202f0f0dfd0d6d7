// Package auth signs the user in and out and exposes who is signed in.
//
// [Manager] implements [Provider] against an identity provider speaking the Identity Toolkit
// REST API ([IdentityClient]): email/password sign-in and registration, and sign-in with a Google
// ID token obtained through [GoogleFlow], a loopback OAuth authorization code flow with PKCE.
//
// The resulting [models.Session] is persisted through a [SessionStore] so later invocations can
// [Manager.Restore] it. [Manager.Token] hands out the session's ID token, refreshing it with the
// secure token endpoint shortly before it expires.
//
// Subscribers registered with [Manager.Subscribe] receive the user on every sign-in and nil on
// sign-out; the task views only run while a user is present.
package auth
