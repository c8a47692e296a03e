package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/gantt/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("GANTT_CONFIG_PATH"); override != "" {
		fmt.Println("GANTT_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("GANTT_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println("Config.path: ", n.Config.BasePath())

	if n.Persistence == nil {
		return fmt.Errorf("Failed to create persistence object.")
	}

	fmt.Printf("Projects:\n")
	found := 0
	for _, meta := range n.Persistence.Projects(ctx, "") {
		fmt.Printf("  %s\n", meta.Name)
		found++
	}

	if found == 0 {
		fmt.Printf("  %s\n", "no projects")
	}

	return nil
}
