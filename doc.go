// Package session provides the client-resident session and route
// authorization core for the learning platform clients: rehydration of the
// last known identity from on-device storage, orchestration of login attempts
// against pluggable identity providers, and deterministic routing decisions
// for protected views.
//
// Session lifecycle:
//   - A single Store owns the Session for the process. It is created at boot
//     from a Persistence record (authenticated or anonymous, never a
//     transient state) and mutated only by the Orchestrator, Logout, and
//     AcknowledgeFailure. The transition graph is enforced centrally so a
//     Session can never hold an Identity outside the authenticated status.
//   - Orchestrator drives one login attempt end to end: at most one attempt
//     is in flight at a time, adapters run under a bounded deadline, and any
//     adapter error or panic degrades to a failed status with a displayable
//     message rather than corrupting the Session.
//
// Routing:
//   - Decide is a pure function mapping (Session, required roles) to a
//     rendering decision. RouteGuard adapts it to go-router middleware,
//     carrying the originally requested location through the rejected-route
//     cookie so a visitor returns where they were headed after login.
//   - Resolver picks the landing path for ambiguous navigation: role default
//     views for authenticated visitors, the public landing page otherwise.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing rehydration,
//     login, and logout events. Sinks run best-effort (errors are logged) so
//     hosts can forward to telemetry without blocking the session core.
package session
