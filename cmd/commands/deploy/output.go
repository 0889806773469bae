package deploy

import (
	"fmt"
	"io"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/output"
)

func printDeployment(w io.Writer, dep *domain.Deployment) {
	fmt.Fprintf(w, "%s %s\n", output.SuccessText.Render("✓ Deployed"), output.AccentText.Render(withScheme(dep.URL)))
	fmt.Fprintf(w, "  %s %s\n", output.Label.Render("ID:    "), dep.ID)
	if dep.Target != "" {
		fmt.Fprintf(w, "  %s %s\n", output.Label.Render("Target:"), dep.Target)
	}
	if dep.ReadyState != "" {
		fmt.Fprintf(w, "  %s %s\n", output.Label.Render("State: "), output.StatusIndicator(strings.ToLower(dep.ReadyState)))
	}
	for _, alias := range dep.Alias {
		fmt.Fprintf(w, "  %s %s\n", output.Label.Render("Alias: "), withScheme(alias))
	}
}

func withScheme(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	return "https://" + url
}
