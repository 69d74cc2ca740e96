package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/cli"
	g_error "github.com/phil-mansfield/beamdpr/lib/error"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	defer func() {
		if r := recover(); r != nil {
			g_error.Internal(log, "%v", r)
		}
	}()

	code, err := cli.Execute(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		g_error.External(log, code, "%s", err.Error())
	}
}
