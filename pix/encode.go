package pix

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	_ "image/png" // decoded transparently alongside JPEG

	"github.com/pkg/errors"
)

const jpegQuality = 95

// DecodeBase64 decodes a base64 string carrying an encoded JPEG or PNG image.
func DecodeBase64(data string) (*Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, "cannot base64-decode image")
	}
	return Decode(raw)
}

// Decode decodes encoded image bytes into a mutable Image.
func Decode(raw []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode image")
	}
	return ConvertImage(img), nil
}

// EncodeJPEG encodes the image to JPEG bytes.
func (i *Image) EncodeJPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, i.rgba, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(err, "cannot encode image to jpeg")
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes the image as a base64 JPEG string, the shape the
// transport layer returns.
func (i *Image) EncodeBase64() (string, error) {
	raw, err := i.EncodeJPEG()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
