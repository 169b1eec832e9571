package types

// ContextUserKey is where the auth middleware stores the authenticated
// user on the gin context.
const ContextUserKey = "user"
