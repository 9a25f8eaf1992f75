package http

import (
	"fmt"
	"io"
	"time"
)

// writeMetric writes one metric in Prometheus text exposition format.
func writeMetric(w io.Writer, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n\n", name, value)
}

func uptime(started time.Time) time.Duration {
	return time.Since(started).Round(time.Second)
}
