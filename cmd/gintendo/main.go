// Command gintendo runs or inspects an NES ROM against the CPU/PPU
// core in this module.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/jrcoffey/gintendo/console"
	"github.com/jrcoffey/gintendo/mappers"
	"github.com/jrcoffey/gintendo/nesrom"
)

func loadBus(romPath string) (*console.Bus, error) {
	rom, err := nesrom.New(romPath)
	if err != nil {
		return nil, fmt.Errorf("invalid ROM: %w", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		return nil, fmt.Errorf("couldn't get mapper: %w", err)
	}

	return console.New(m), nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <rom.nes>",
		Short: "Run a ROM until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bus, err := loadBus(args[0])
			if err != nil {
				return err
			}
			return bus.RunInteractive(context.Background())
		},
	}
}

func newTraceCmd() *cobra.Command {
	var steps int64

	cmd := &cobra.Command{
		Use:   "trace <rom.nes>",
		Short: "Run a ROM, emitting one nestest-style trace line per instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bus, err := loadBus(args[0])
			if err != nil {
				return err
			}
			bus.Trace = os.Stdout
			bus.SetStrict(true)

			if steps <= 0 {
				return bus.RunInteractive(context.Background())
			}
			for i := int64(0); i < steps; i++ {
				if err := bus.Step(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&steps, "steps", 0, "stop after this many instructions (0 = run until interrupted)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <rom.nes>",
		Short: "Dump ROM header and mapper/CPU state at power-on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := nesrom.New(args[0])
			if err != nil {
				return fmt.Errorf("invalid ROM: %w", err)
			}

			m, err := mappers.Get(rom)
			if err != nil {
				return fmt.Errorf("couldn't get mapper: %w", err)
			}

			fmt.Println(rom)
			fmt.Printf("mapper: %s (id %d)\n\n", m.Name(), m.ID())

			bus := console.New(m)
			spew.Dump(bus)
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:   "gintendo",
		Short: "A MOS 6502 / NES CPU+PPU core",
	}
	root.AddCommand(newRunCmd(), newTraceCmd(), newInspectCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
