package frontier

import (
	"strings"
	"time"
)

// domainBucket is the politeness unit: one queue of URLs sharing a
// dispatch deadline. All fields are guarded by the frontier's mutex.
type domainBucket struct {
	// name is the bucket key returned by bucketFor.
	name string

	// queue holds the bucket's waiting URLs, best score first.
	queue urlHeap

	// nextEligible is the earliest time this bucket may dispatch.
	nextEligible time.Time

	// scheduled reports whether the bucket currently sits in the
	// schedule heap. A bucket is scheduled iff its queue is non-empty.
	scheduled bool
}

// bucketFor maps a host to its politeness bucket. A host that equals a
// crawl domain, or is a subdomain of one, shares that domain's bucket:
// vision.ics.uci.edu and www.ics.uci.edu are usually the same server,
// so they must share one delay. Any other host gets its own bucket.
func bucketFor(host string, domains []string) string {
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return domain
		}
	}
	return host
}
