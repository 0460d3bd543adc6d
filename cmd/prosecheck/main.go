// prosecheck builds a styleguide of AI-typical prose patterns from two
// corpora and checks documents against it.
//
// Usage:
//
//	prosecheck analyze --candidate=ai.jsonl --reference=human.jsonl [-o results/markers.json] [--styleguide=guide.md]
//	prosecheck check [files...] [--stdin] [--format=text|json|markdown|html] [-v] [--watch]
//	prosecheck status [--markers=<path>]
//	prosecheck history [--source=<path>]
//	prosecheck serve [--addr=:8080]
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
