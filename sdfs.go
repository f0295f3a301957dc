//go:build tinygo

package main

import (
	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"

	"github.com/inkframe/inkframe/storage"
)

// mountCard brings up the SD card on the shared SPI bus and returns its
// FAT filesystem.
func mountCard() (storage.Filesystem, error) {
	sd := sdcard.New(&machine.SPI2, spiSCK, spiSDO, spiSDI, sdCS)
	if err := sd.Configure(); err != nil {
		return nil, err
	}

	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{
		SectorSize: 512,
	})
	return cardFilesystem{fs: fs}, nil
}

// cardFilesystem narrows the FAT filesystem to the read-only surface the
// store needs.
type cardFilesystem struct {
	fs *fatfs.FATFS
}

func (c cardFilesystem) OpenFile(path string, flags int) (storage.File, error) {
	return c.fs.OpenFile(path, flags)
}
