package main

import (
	"github.com/ssargent/survex3d/cmd/survex3d/cmd"
	"github.com/ssargent/survex3d/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
