package main

import (
	"github.com/Paintersrp/rip/internal/cli"
	"github.com/Paintersrp/rip/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
