package shell

import (
	qrcode "github.com/skip2/go-qrcode"
)

// renderQR draws content as a QR code with half-block characters, two
// modules per character row.
func renderQR(content string) (string, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return code.ToSmallString(false), nil
}
