package il0373

// IL0373 command set (UltraChip UC8151-family tricolor controller).
const (
	cmdPanelSetting           = 0x00
	cmdPowerSetting           = 0x01
	cmdPowerOff               = 0x02
	cmdPowerOn                = 0x04
	cmdBoosterSoftStart       = 0x06
	cmdDeepSleep              = 0x07
	cmdDataStartTransmission1 = 0x10 // black plane
	cmdDataStop               = 0x11
	cmdDisplayRefresh         = 0x12
	cmdDataStartTransmission2 = 0x13 // red plane
	cmdPLLControl             = 0x30
	cmdVcomDataInterval       = 0x50
	cmdResolutionSetting      = 0x61
	cmdVcmDCSetting           = 0x82
)

const deepSleepCheckCode = 0xa5
