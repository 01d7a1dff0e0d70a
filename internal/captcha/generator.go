// Package captcha renders image challenges for the registration flow.
package captcha

import (
	"bytes"
	"fmt"

	"github.com/mojocn/base64Captcha"
)

// Generator produces a random answer and a PNG depicting it.
type Generator interface {
	Generate() (answer string, image []byte, err error)
}

// Символы без легко путаемых 0/O, 1/I/L.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type ImageGenerator struct {
	driver *base64Captcha.DriverString
}

// NewImageGenerator returns a generator of length-character challenges.
func NewImageGenerator(length int) *ImageGenerator {
	if length <= 0 {
		length = 4
	}
	driver := base64Captcha.NewDriverString(
		60, 240, 0,
		base64Captcha.OptionShowHollowLine,
		length,
		alphabet,
		nil, nil, nil,
	)
	return &ImageGenerator{driver: driver}
}

func (g *ImageGenerator) Generate() (string, []byte, error) {
	_, question, answer := g.driver.GenerateIdQuestionAnswer()
	item, err := g.driver.DrawCaptcha(question)
	if err != nil {
		return "", nil, fmt.Errorf("draw captcha: %w", err)
	}
	var buf bytes.Buffer
	if _, err := item.WriteTo(&buf); err != nil {
		return "", nil, fmt.Errorf("encode captcha: %w", err)
	}
	return answer, buf.Bytes(), nil
}
