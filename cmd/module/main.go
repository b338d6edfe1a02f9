package main

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
	"go.viam.com/utils/trace"

	"viamgo"
)

func main() {
	// traces are exported only when an OTLP endpoint is reachable
	if exporter, err := otlptracegrpc.New(context.Background()); err == nil {
		trace.AddExporters(exporter)
	}

	module.ModularMain(
		resource.APIModel{API: generic.API, Model: viamgo.RecorderModel},
		resource.APIModel{API: camera.API, Model: viamgo.GridCameraModel},
	)
}
