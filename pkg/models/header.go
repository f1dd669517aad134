package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultLogoFormat is assumed when a logo carries no usable format tag.
const DefaultLogoFormat = "PNG"

// ErrInvalidLogo is returned when a logo data URL cannot be decoded.
var ErrInvalidLogo = errors.New("invalid logo data")

// CompanyHeader describes the issuing company printed on every note.
type CompanyHeader struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Logo    string `json:"logo,omitempty"` // data:image/<format>;base64,<payload>
}

// HasLogo reports whether a logo is attached.
func (h CompanyHeader) HasLogo() bool {
	return h.Logo != ""
}

// Logo is a decoded logo image.
type Logo struct {
	Format string // Upper-case format tag: PNG, JPEG, GIF...
	Data   []byte
}

// ParseLogo decodes a data URL. An unrecognized or missing format tag falls
// back to DefaultLogoFormat; only an undecodable payload is an error.
func ParseLogo(dataURL string) (Logo, error) {
	payload := dataURL
	format := DefaultLogoFormat

	if strings.HasPrefix(dataURL, "data:") {
		meta, body, ok := strings.Cut(dataURL, ",")
		if !ok {
			return Logo{}, fmt.Errorf("%w: missing payload separator", ErrInvalidLogo)
		}
		payload = body
		if tag := logoFormatTag(meta); tag != "" {
			format = tag
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return Logo{}, fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}
	if len(data) == 0 {
		return Logo{}, fmt.Errorf("%w: empty payload", ErrInvalidLogo)
	}

	return Logo{Format: format, Data: data}, nil
}

// EncodeLogo builds the data URL stored in CompanyHeader.Logo.
func EncodeLogo(format string, data []byte) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.ToLower(DefaultLogoFormat)
	}
	if format == "jpg" {
		format = "jpeg"
	}
	return fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data))
}

// logoFormatTag extracts "PNG" from "data:image/png;base64".
func logoFormatTag(meta string) string {
	meta = strings.TrimPrefix(meta, "data:")
	mime, _, _ := strings.Cut(meta, ";")
	sub, ok := strings.CutPrefix(mime, "image/")
	if !ok || sub == "" {
		return ""
	}
	for _, r := range sub {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '+') {
			return ""
		}
	}
	return strings.ToUpper(sub)
}
