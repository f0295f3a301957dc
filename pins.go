//go:build tinygo

package main

import "machine"

// Board wiring. The panel and the card share the SPI bus; each has its
// own chip select.
const (
	spiSCK = machine.GPIO18
	spiSDO = machine.GPIO23
	spiSDI = machine.GPIO19

	einkCS    = machine.GPIO14
	einkDC    = machine.GPIO12
	einkReset = machine.GPIO13
	einkBusy  = machine.GPIO15

	sdCS = machine.GPIO5

	btnUp     = machine.GPIO9
	btnSelect = machine.GPIO10
	btnDown   = machine.GPIO11
)

const (
	spiFrequency = 4_000_000

	panelWidth  = 128
	panelHeight = 296

	imageDir = "/images"
)
