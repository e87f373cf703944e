// Package api defines the shared types of the arran wizard engine: step
// descriptors and field schemas, flow state, navigation outcomes, events,
// and the request/response shapes of the HTTP surface
package api
