// Package authz derives project capabilities from membership roles.
//
// The capability table in Derive is the single source of truth for what a
// role may do. Call sites must consume the derived CapabilitySet rather
// than comparing roles directly; comparing roles inline is how the
// owner-implies-editor escalation gets forgotten.
package authz
