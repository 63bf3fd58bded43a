// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package models

import (
	"fmt"
	"strings"
)

// Summary renders the report as a plain-text digest suitable for logs,
// notifications, and downstream insight generation.
func (r *ModelReport) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== PLS-SEM MODEL SUMMARY ===\n")
	fmt.Fprintf(&b, "Region: %s  Period: %s\n", r.Region, r.Period)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if !r.Converged {
		fmt.Fprintf(&b, "WARNING: weight iteration did not converge (residual %.2e after %d iterations)\n",
			r.Residual, r.Iterations)
	}

	confidence := r.Bootstrap.ConfidenceLevel * 100

	b.WriteString("\nSTRUCTURAL COEFFICIENTS:\n")
	for _, p := range r.Paths {
		sig := ""
		if p.Significant {
			sig = " *"
		}
		if p.CILow != nil && p.CIHigh != nil {
			fmt.Fprintf(&b, "  %s -> %s: %.3f  %g%% CI [%.3f, %.3f]%s\n",
				p.Source, p.Target, p.Beta, confidence, *p.CILow, *p.CIHigh, sig)
		} else {
			fmt.Fprintf(&b, "  %s -> %s: %.3f  (CI unavailable)%s\n", p.Source, p.Target, p.Beta, sig)
		}
	}

	b.WriteString("\nEFFECTS:\n")
	for _, p := range r.Paths {
		if p.IndirectEffect == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s: direct %.3f, indirect %.3f, total %.3f\n",
			p.Source, p.Target, p.DirectEffect, p.IndirectEffect, p.TotalEffect)
	}

	b.WriteString("\nRELIABILITY:\n")
	for _, c := range r.Reliability.Constructs {
		fmt.Fprintf(&b, "  %s: alpha %.3f, CR %.3f, AVE %.3f\n",
			c.Construct, c.CronbachAlpha, c.CompositeReliability, c.AVE)
	}
	for _, w := range r.Reliability.Warnings {
		fmt.Fprintf(&b, "  WARNING: %s\n", w)
	}

	fmt.Fprintf(&b, "\nBOOTSTRAP: %d/%d replicates (%d excluded)",
		r.Bootstrap.Completed-r.Bootstrap.Excluded, r.Bootstrap.Samples, r.Bootstrap.Excluded)
	if !r.Bootstrap.Reliable {
		b.WriteString(" - UNRELIABLE")
	}
	if r.Bootstrap.Partial {
		b.WriteString(" - PARTIAL")
	}
	b.WriteString("\n")

	return b.String()
}
