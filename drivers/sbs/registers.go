// Package sbs reads a Smart Battery System fuel gauge over SMBus.
//
// It is a flat query API: each call is one SMBus word or block transaction,
// nothing is cached. Units follow the gauge: mV, mA, mAh (or 10 mWh in
// 10 mW mode), minutes, deci-kelvin.
package sbs

// 7-bit SMBus address of the battery.
const AddressDefault = 0x0B

// Smart Battery Data commands.
const (
	cmdBatteryMode        = 0x03
	cmdAtRate             = 0x04
	cmdAtRateTimeToFull   = 0x05
	cmdAtRateTimeToEmpty  = 0x06
	cmdAtRateOK           = 0x07
	cmdTemperature        = 0x08
	cmdVoltage            = 0x09
	cmdCurrent            = 0x0A
	cmdAverageCurrent     = 0x0B
	cmdRelativeSOC        = 0x0D
	cmdAbsoluteSOC        = 0x0E
	cmdRemainingCapacity  = 0x0F
	cmdFullChargeCapacity = 0x10
	cmdRunTimeToEmpty     = 0x11
	cmdAverageTimeToEmpty = 0x12
	cmdAverageTimeToFull  = 0x13
	cmdChargingCurrent    = 0x14
	cmdChargingVoltage    = 0x15
	cmdBatteryStatus      = 0x16
	cmdCycleCount         = 0x17
	cmdDesignCapacity     = 0x18
	cmdDesignVoltage      = 0x19
	cmdManufactureDate    = 0x1B
	cmdSerialNumber       = 0x1C
	cmdManufacturerName   = 0x20
	cmdDeviceName         = 0x21
	cmdDeviceChemistry    = 0x22
)

// BatteryMode bits.
const (
	ModeCapacity Mode = 1 << 15 // report capacity in 10 mWh
	ModeCharger  Mode = 1 << 14 // disable broadcasts to the charger
)

// BatteryStatus bits.
const (
	StatusOverChargedAlarm        Status = 1 << 15
	StatusTerminateCharge         Status = 1 << 14
	StatusOverTempAlarm           Status = 1 << 12
	StatusTerminateDischargeAlarm Status = 1 << 11
	StatusRemCapacityAlarm        Status = 1 << 9
	StatusRemTimeAlarm            Status = 1 << 8
	StatusInitialized             Status = 1 << 7
	StatusDischarging             Status = 1 << 6
	StatusFullyCharged            Status = 1 << 5
	StatusFullyDischarged         Status = 1 << 4
)

// Block reads carry a length byte and at most 32 bytes of data.
const maxBlock = 32

// 0xFFFF in a time register means "not applicable".
const timeNotApplicable = 0xFFFF
