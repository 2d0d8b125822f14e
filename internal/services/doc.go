// Package services implements the client for the skill-swap backend API.
//
// # Client
//
// [Client] maps each backend operation (posts, community feeds, login, register, logout, session check, profiles)
// to exactly one HTTP request and normalizes the outcome. There are no retries and no timeouts at this layer;
// callers bound calls with a [context.Context].
//
// # Ambient Session
//
// No method accepts or manages the session credential. The [http.Client] given to [NewClient] carries a cookie jar,
// and the backend's session cookie rides along on every request. [Jar] wraps [cookiejar.Jar] and persists the
// cookie set per backend host through a [CookieStore] (the SQLite [repositories.CookieRepository] in the CLI),
// so a session established by one invocation is reused by the next.
//
// # Encoding
//
// Create post, login, register and profile picture updates are form encoded. The category set of a new post is
// sent as an embedded JSON array string in the "categories" field, which is what the backend parses.
// Post updates send the whole record as a JSON body.
//
// # Error Handling
//
// Outcomes are normalized:
//   - 2xx: the body is decoded into the typed result; a body that does not decode is an error wrapping [shared.ErrDecodeResponse]
//   - non-2xx: [*RequestFailed] carrying the operation, status and the body's "message" field, or the status text when the body has none
//   - transport failure: an error wrapping [shared.ErrNetwork] and the cause
//
// [RequestFailed] unwraps to [shared.ErrAPIRequest].
package services
