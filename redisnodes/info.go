package redisnodes

import "strings"

// ClusterStateFail is the cluster_state value of an unhealthy cluster.
// Masters reporting it must not be routed to.
const ClusterStateFail = "fail"

// ParseInfo parses CLUSTER INFO output into its key:value pairs.
// Lines without a colon are skipped.
func ParseInfo(text string) map[string]string {
	params := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		ix := strings.IndexByte(line, ':')
		if ix <= 0 {
			continue
		}
		params[line[:ix]] = line[ix+1:]
	}
	return params
}
