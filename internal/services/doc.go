// Package services defines the [TaskService] boundary to the remote task CRUD API and implements it over HTTP.
//
// # TaskService Interface
//
// Four operations, each a single request/response round trip:
//
//	FetchAll    GET    /tasks        → [{id, task, completed}]
//	Create      POST   /tasks        {task, completed:false} → {id}
//	UpdateText  PUT    /tasks/{id}   {task}
//	Delete      DELETE /tasks/{id}
//
// The service is pure translation: it performs no retries, no timeouts beyond the transport default,
// and no caching. The task store is its only caller.
//
// # HTTP Implementation
//
// [HTTPTaskService] optionally paces requests with a [rate.Limiter] (config api.rate_limit).
// When the signed-in user's ID token should be forwarded, pass a client from [NewTokenClient].
// It asks a [TokenFunc] for the token through an [oauth2.ReuseTokenSource], so a token refreshed
// by the session is picked up once the reuse window passes.
//
// # Error Handling
//
// Every failure (transport error, non-2xx response, undecodable body) is a [*NetworkError] which
// matches [shared.ErrNetwork]. When the server includes a message in the error body, it is kept in
// [NetworkError.Message] so the UI can surface it.
package services
