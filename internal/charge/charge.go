package charge

import (
	"context"
)

// Method is the logical request kind; the gateway only distinguishes
// reads from charge-mutating creates.
type Method string

const (
	MethodRead   Method = "read"
	MethodCreate Method = "create"
)

// Request targets a resource under the charges collection. Path is relative:
// "" creates a charge, "{id}/capture", "{id}/refund" and "{id}/void" act on
// an existing one.
type Request struct {
	Method Method
	Path   string
	Body   map[string]interface{}
}

// Response is the decoded gateway body. The gateway signals business failure
// in-band with a status_code key; by the time a Response reaches callers that
// shape has already been rejected by the client.
type Response map[string]interface{}

// ChargeID extracts the gateway-assigned identifier from a create response.
func (r Response) ChargeID() (string, bool) {
	id, ok := r["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type Gateway interface {
	Send(ctx context.Context, req Request) (Response, error)
}
