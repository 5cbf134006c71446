package device

import (
	"errors"

	"github.com/ezrec/vcpu/translate"
)

var f = translate.From

var (
	// Bus errors
	ErrDeviceIdExists     = errors.New(f("device id exists"))
	ErrDeviceDoesNotExist = errors.New(f("device does not exist"))
	ErrTooManyDevices     = errors.New(f("too many devices"))

	// Device work errors
	ErrInvalidInput       = errors.New(f("invalid input"))
	ErrWrongArgumentCount = errors.New(f("wrong argument count"))

	// ErrNoOutput is returned by write-style actions that produce no data.
	// It is not a failure.
	ErrNoOutput = errors.New(f("no output"))
)

// ErrDevice identifies the device that reported an error.
type ErrDevice struct {
	Id  uint16
	Err error
}

func (err *ErrDevice) Error() string {
	return f("device %d: %v", err.Id, err.Err)
}

func (err *ErrDevice) Unwrap() error {
	return err.Err
}
