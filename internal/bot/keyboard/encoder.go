package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64
)

// MenuUnique prefixes callback data of menu buttons ("menu:/about").
const MenuUnique = "menu"

// ErrCallbackTooLong is returned when encoded data would not fit into a Telegram callback.
var ErrCallbackTooLong = errors.New("callback data too long")

func EncodeCallback(unique, data string) (string, error) {
	payload := unique
	if data != "" {
		payload = unique + CallbackDataSeparator + data
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrCallbackTooLong, len(payload), CallbackDataLimitBytes)
	}

	return payload, nil
}

func DecodeCallback(callbackData string) (unique, data string, err error) {
	if callbackData == "" {
		return "", "", errors.New("callback data is empty")
	}

	unique, data, _ = strings.Cut(callbackData, CallbackDataSeparator)
	return unique, data, nil
}
