package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const usage = `stacker builds correlated NFL DFS lineups.

Usage:
  stacker build --input DIR [--out DIR] [--config FILE] [--seed N] [--lineups N]
  stacker serve [--config FILE] [--port P]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logrus.WithError(err).Fatalf("stacker %s failed", os.Args[1])
	}
}
