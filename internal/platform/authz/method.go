package authz

import "strings"

// Target is what an RPC acts on, derived from its full method name.
type Target struct {
	Resource string
	Action   string
}

// ParseFullMethod maps a gRPC full method (e.g. /ipam.v1.IPRequestService/ApproveRequest) to a
// resource (iprequest) and a verb (approve). Unparseable names map to "unknown".
func ParseFullMethod(fullMethod string) Target {
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return Target{Resource: "unknown", Action: "unknown"}
	}
	method := fullMethod[slash+1:]
	service := fullMethod[:slash]
	if dot := strings.LastIndex(service, "."); dot >= 0 {
		service = service[dot+1:]
	}
	resource := strings.ToLower(strings.TrimSuffix(service, "Service"))
	if resource == "" || strings.HasPrefix(resource, "/") {
		resource = "unknown"
	}
	return Target{Resource: resource, Action: methodToAction(method)}
}

func methodToAction(method string) string {
	for _, verb := range []string{"Get", "List", "Create", "Approve", "Reject", "Cancel"} {
		if strings.HasPrefix(method, verb) && method != verb {
			return strings.ToLower(verb)
		}
	}
	if strings.HasSuffix(method, "Check") {
		return "check"
	}
	if method == "" {
		return "unknown"
	}
	return strings.ToLower(method)
}
