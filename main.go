//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/inkframe/inkframe/epd"
	"github.com/inkframe/inkframe/il0373"
	"github.com/inkframe/inkframe/input"
	"github.com/inkframe/inkframe/slideshow"
	"github.com/inkframe/inkframe/storage"
)

func main() {
	// give the serial console a moment to attach
	time.Sleep(100 * time.Millisecond)

	err := machine.SPI2.Configure(machine.SPIConfig{
		Frequency: spiFrequency,
		SCK:       spiSCK,
		SDO:       spiSDO,
		SDI:       spiSDI,
	})
	if err != nil {
		printError("failed to configure spi bus", err)
		halt()
	}

	panel := il0373.NewSPI(&machine.SPI2, einkCS, einkDC, einkReset, einkBusy, panelWidth, panelHeight)
	if err := panel.Configure(); err != nil {
		printError("failed to configure panel", err)
		halt()
	}
	panel.SetRotation(epd.Rot90) // portrait

	src := input.NewSource()
	pins := input.Pins{Up: btnUp, Select: btnSelect, Down: btnDown}
	input.Configure(pins, src)

	var store *storage.Store
	if fs, err := mountCard(); err != nil {
		printError("failed to mount sd card", err)
		store = storage.New(nil) // the controller shows the error screen
	} else {
		store = storage.New(fs)
	}

	slp := &sleeper{panel: panel, pins: pins, src: src}
	for {
		ctl := slideshow.New(panel, store, src.Events(), slp, slideshow.Config{
			ImageDir: imageDir,
		})
		if err := ctl.Run(); err != nil {
			printError("slideshow stopped", err)
			halt()
		}
		// Run returned after a wake from sleep; rescan and start over.
	}
}

func printError(msg string, err error) {
	print(msg)
	if err != nil {
		print(": ", err.Error())
	}
	println()
}

// halt parks the program after a fatal error. Only a reset recovers.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
