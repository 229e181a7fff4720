//go:build windows

package fsx

import (
	"errors"

	"golang.org/x/sys/windows"
)

func isEXDEV(err error) bool { return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE) }
