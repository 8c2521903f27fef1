package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/authclient/component"
)

// writeSummary prints the started components with their live health.
func writeSummary(ctx context.Context, w io.Writer, name, version string, took time.Duration, registry *component.Registry) {
	fmt.Fprintf(w, "%s %s started in %.2fs\n", name, version, took.Seconds())

	descs := registry.Describe()
	health := registry.HealthAll(ctx)
	if len(descs) == 0 {
		fmt.Fprintln(w, "   └── no components registered")
		return
	}
	for i, d := range descs {
		prefix := "├──"
		if i == len(descs)-1 {
			prefix = "└──"
		}
		status := component.StatusUnhealthy
		if i < len(health) {
			status = health[i].Status
		}
		line := fmt.Sprintf("   %s [%s] %s", prefix, status, d.Name)
		if d.Type != "" {
			line += " (" + d.Type + ")"
		}
		if d.Details != "" {
			line += ": " + d.Details
		}
		fmt.Fprintln(w, line)
	}
}
