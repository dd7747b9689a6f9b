package main

import (
	"fmt"

	"github.com/Rhoahndur/siteplanner/pkg/cost"
	"github.com/Rhoahndur/siteplanner/pkg/optimize"
	"github.com/Rhoahndur/siteplanner/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Blocking) > 0 {
		fmt.Printf("BLOCKING (%d):\n", len(r.Blocking))
		for _, v := range r.Blocking {
			fmt.Printf("  [%s] %s\n", v.Kind, v.Message)
			if v.Required > 0 {
				fmt.Printf("    measured %.2f, required %.2f\n", v.Measured, v.Required)
			}
		}
		fmt.Println()
	}

	if len(r.Advisory) > 0 {
		fmt.Printf("ADVISORY (%d):\n", len(r.Advisory))
		for _, v := range r.Advisory {
			fmt.Printf("  [%s] %s\n", v.Kind, v.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printRunSummary(name string, res *optimize.Result, report *validation.Report, costs *cost.Report) {
	fmt.Printf("Scenario: %s\n", name)
	fmt.Printf("Generations: %d (%.2fs)\n", res.Generations, res.Elapsed.Seconds())
	fmt.Printf("Best fitness: %.2f (population mean %.2f, stddev %.2f)\n",
		res.Best.Fitness, res.MeanFitness, res.StdDevFitness)
	switch {
	case res.Degenerate:
		fmt.Println("Terminated: degenerate site, nothing can be placed")
	case res.Converged:
		fmt.Println("Terminated: converged")
	case res.TimedOut:
		fmt.Println("Terminated: time limit")
	default:
		fmt.Println("Terminated: generation cap")
	}
	fmt.Printf("Alternatives: %d\n", len(res.Alternatives))
	if report.Valid {
		fmt.Println("Best layout: VALID")
	} else {
		fmt.Printf("Best layout: INVALID (%s)\n", report.Summary)
	}
	fmt.Printf("Estimated cost: $%.0f (%.0fm of internal road)\n",
		costs.Breakdown.Total, costs.RoadLengthM)
	fmt.Println()
}
